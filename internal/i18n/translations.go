package i18n

// Translation is the fixed-shape record of interface strings for one
// language. Kept as pure data so adding a language never touches behavior.
type Translation struct {
	Greeting       string
	ReminderText   string
	EmptyTask      string
	RepeatProblem  string
	NoMicSupport   string
	MicDenied      string
	WeatherError   string
	APIError       string
	GoodDay        string
	RainyDay       string
	HotDay         string
	WindyDay       string
	ConfirmClear   string
	Today          string
	Yesterday      string
	ThisWeek       string
	Suggested      string
	MyTasks        string
	Completed      string
	Pending        string
}

var translations = map[string]Translation{
	"hi": {
		Greeting:      "नमस्ते",
		ReminderText:  "सुबह खेत की जांच करना न भूलें!",
		EmptyTask:     "कृपया काम का विवरण लिखें",
		RepeatProblem: "कृपया अपनी समस्या दोहराएं...",
		NoMicSupport:  "माइक्रोफोन समर्थित नहीं है",
		MicDenied:     "माइक्रोफोन अनुमति अस्वीकृत",
		WeatherError:  "मौसम की जानकारी लोड नहीं हो सकी",
		APIError:      "जवाब नहीं मिल सका, फिर कोशिश करें",
		GoodDay:       "खेती के लिए अच्छा दिन",
		RainyDay:      "बारिश का दिन - छिड़काव न करें",
		HotDay:        "गर्म दिन - सिंचाई करें",
		WindyDay:      "तेज हवा - छिड़काव से बचें",
		ConfirmClear:  "क्या आप पूरा इतिहास साफ़ करना चाहते हैं?",
		Today:         "आज",
		Yesterday:     "कल",
		ThisWeek:      "इस सप्ताह",
		Suggested:     "सुझाए गए काम",
		MyTasks:       "मेरे काम",
		Completed:     "पूरा हुआ",
		Pending:       "बाकी",
	},
	"en": {
		Greeting:      "Hello",
		ReminderText:  "Don't forget to check your fields this morning!",
		EmptyTask:     "Please enter a task description",
		RepeatProblem: "Please repeat your problem...",
		NoMicSupport:  "Microphone not supported",
		MicDenied:     "Microphone permission denied",
		WeatherError:  "Unable to load weather data",
		APIError:      "Could not get a response, please try again",
		GoodDay:       "Good day for farming",
		RainyDay:      "Rainy day - avoid spraying",
		HotDay:        "Hot day - water your crops",
		WindyDay:      "Windy day - avoid spraying",
		ConfirmClear:  "Do you want to clear all history?",
		Today:         "Today",
		Yesterday:     "Yesterday",
		ThisWeek:      "This Week",
		Suggested:     "Suggested Tasks",
		MyTasks:       "My Tasks",
		Completed:     "Completed",
		Pending:       "Pending",
	},
	"ta": {
		Greeting:      "வணக்கம்",
		ReminderText:  "இன்று காலையில் உங்கள் வயல்களை சரிபார்க்க மறக்காதீர்கள்!",
		EmptyTask:     "பணி விவரத்தை உள்ளிடவும்",
		RepeatProblem: "உங்கள் பிரச்சனையை மீண்டும் கூறவும்...",
		NoMicSupport:  "மைக்ரோஃபோன் ஆதரிக்கப்படவில்லை",
		MicDenied:     "மைக்ரோஃபோன் அனுமதி மறுக்கப்பட்டது",
		WeatherError:  "வானிலை தகவலை ஏற்ற முடியவில்லை",
		APIError:      "பதில் கிடைக்கவில்லை, மீண்டும் முயற்சிக்கவும்",
		GoodDay:       "விவசாயத்திற்கு நல்ல நாள்",
		RainyDay:      "மழை நாள் - தெளிப்பதை தவிர்க்கவும்",
		HotDay:        "வெப்பமான நாள் - பயிர்களுக்கு நீர் பாய்ச்சவும்",
		WindyDay:      "காற்று அதிகம் - தெளிப்பதை தவிர்க்கவும்",
		ConfirmClear:  "முழு வரலாற்றையும் அழிக்க வேண்டுமா?",
		Today:         "இன்று",
		Yesterday:     "நேற்று",
		ThisWeek:      "இந்த வாரம்",
		Suggested:     "பரிந்துரைக்கப்பட்ட பணிகள்",
		MyTasks:       "என் பணிகள்",
		Completed:     "முடிந்தது",
		Pending:       "நிலுவையில்",
	},
	"te": {
		Greeting:      "నమస్తే",
		ReminderText:  "ఈ ఉదయం పొలాలను తనిఖీ చేయడం మర్చిపోవద్దు!",
		EmptyTask:     "దయచేసి పని వివరాలు నమోదు చేయండి",
		RepeatProblem: "దయచేసి మీ సమస్యను మళ్లీ చెప్పండి...",
		NoMicSupport:  "మైక్రోఫోన్ మద్దతు లేదు",
		MicDenied:     "మైక్రోఫోన్ అనుమతి తిరస్కరించబడింది",
		WeatherError:  "వాతావరణ సమాచారం లోడ్ కాలేదు",
		APIError:      "సమాధానం రాలేదు, మళ్లీ ప్రయత్నించండి",
		GoodDay:       "వ్యవసాయానికి మంచి రోజు",
		RainyDay:      "వర్షపు రోజు - పిచికారీ చేయవద్దు",
		HotDay:        "వేడి రోజు - పంటలకు నీరు పెట్టండి",
		WindyDay:      "గాలులు ఎక్కువ - పిచికారీ చేయవద్దు",
		ConfirmClear:  "మొత్తం చరిత్రను తొలగించాలా?",
		Today:         "ఈరోజు",
		Yesterday:     "నిన్న",
		ThisWeek:      "ఈ వారం",
		Suggested:     "సూచించిన పనులు",
		MyTasks:       "నా పనులు",
		Completed:     "పూర్తయింది",
		Pending:       "పెండింగ్",
	},
	"bn": {
		Greeting:      "নমস্কার",
		ReminderText:  "আজ সকালে ক্ষেত পরীক্ষা করতে ভুলবেন না!",
		EmptyTask:     "অনুগ্রহ করে কাজের বিবরণ লিখুন",
		RepeatProblem: "অনুগ্রহ করে আপনার সমস্যাটি আবার বলুন...",
		NoMicSupport:  "মাইক্রোফোন সমর্থিত নয়",
		MicDenied:     "মাইক্রোফোন অনুমতি প্রত্যাখ্যাত",
		WeatherError:  "আবহাওয়ার তথ্য লোড করা যায়নি",
		APIError:      "উত্তর পাওয়া যায়নি, আবার চেষ্টা করুন",
		GoodDay:       "চাষের জন্য ভালো দিন",
		RainyDay:      "বৃষ্টির দিন - স্প্রে করবেন না",
		HotDay:        "গরম দিন - ফসলে জল দিন",
		WindyDay:      "ঝোড়ো হাওয়া - স্প্রে এড়িয়ে চলুন",
		ConfirmClear:  "আপনি কি সম্পূর্ণ ইতিহাস মুছতে চান?",
		Today:         "আজ",
		Yesterday:     "গতকাল",
		ThisWeek:      "এই সপ্তাহ",
		Suggested:     "প্রস্তাবিত কাজ",
		MyTasks:       "আমার কাজ",
		Completed:     "সম্পন্ন",
		Pending:       "বাকি",
	},
	"mr": {
		Greeting:      "नमस्कार",
		ReminderText:  "आज सकाळी शेत तपासायला विसरू नका!",
		EmptyTask:     "कृपया कामाचा तपशील लिहा",
		RepeatProblem: "कृपया तुमची समस्या पुन्हा सांगा...",
		NoMicSupport:  "मायक्रोफोन समर्थित नाही",
		MicDenied:     "मायक्रोफोन परवानगी नाकारली",
		WeatherError:  "हवामान माहिती लोड होऊ शकली नाही",
		APIError:      "उत्तर मिळाले नाही, पुन्हा प्रयत्न करा",
		GoodDay:       "शेतीसाठी चांगला दिवस",
		RainyDay:      "पावसाचा दिवस - फवारणी टाळा",
		HotDay:        "उष्ण दिवस - पिकांना पाणी द्या",
		WindyDay:      "जोरदार वारा - फवारणी टाळा",
		ConfirmClear:  "तुम्हाला संपूर्ण इतिहास साफ करायचा आहे का?",
		Today:         "आज",
		Yesterday:     "काल",
		ThisWeek:      "या आठवड्यात",
		Suggested:     "सुचवलेली कामे",
		MyTasks:       "माझी कामे",
		Completed:     "पूर्ण झाले",
		Pending:       "बाकी",
	},
}

// Lookup returns the translation record for a language code. Absent codes
// fall back silently to the default language record.
func Lookup(code string) Translation {
	if t, ok := translations[code]; ok {
		return t
	}
	return translations[DefaultLanguageCode]
}
