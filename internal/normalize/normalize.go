// Package normalize canonicalizes user-supplied card fields.
//
// Cards arrive from the API, CSV/JSON imports, and drop-folder files, so
// the same language shows up as "es", "spa", "ES-mx", or "spanish"
// depending on the source. Language folds all of those to one display
// name so mode filters and exports group cards consistently.
package normalize

import "strings"

// codeToName maps ISO 639-1 and 639-2 codes (including bibliographic
// variants) to display names.
//
//nolint:gochecknoglobals // Static lookup table
var codeToName = map[string]string{
	"en": "English", "eng": "English",
	"es": "Spanish", "spa": "Spanish",
	"fr": "French", "fra": "French", "fre": "French",
	"de": "German", "deu": "German", "ger": "German",
	"it": "Italian", "ita": "Italian",
	"pt": "Portuguese", "por": "Portuguese",
	"nl": "Dutch", "nld": "Dutch", "dut": "Dutch",
	"ru": "Russian", "rus": "Russian",
	"ja": "Japanese", "jpn": "Japanese",
	"zh": "Chinese", "zho": "Chinese", "chi": "Chinese",
	"ko": "Korean", "kor": "Korean",
	"ar": "Arabic", "ara": "Arabic",
	"hi": "Hindi", "hin": "Hindi",
	"pl": "Polish", "pol": "Polish",
	"sv": "Swedish", "swe": "Swedish",
	"no": "Norwegian", "nor": "Norwegian",
	"da": "Danish", "dan": "Danish",
	"fi": "Finnish", "fin": "Finnish",
	"tr": "Turkish", "tur": "Turkish",
	"el": "Greek", "ell": "Greek", "gre": "Greek",
	"he": "Hebrew", "heb": "Hebrew",
	"cs": "Czech", "ces": "Czech", "cze": "Czech",
	"hu": "Hungarian", "hun": "Hungarian",
	"ro": "Romanian", "ron": "Romanian", "rum": "Romanian",
	"th": "Thai", "tha": "Thai",
	"vi": "Vietnamese", "vie": "Vietnamese",
	"id": "Indonesian", "ind": "Indonesian",
	"uk": "Ukrainian", "ukr": "Ukrainian",
	"ca": "Catalan", "cat": "Catalan",
	"hr": "Croatian", "hrv": "Croatian",
	"sk": "Slovak", "slk": "Slovak", "slo": "Slovak",
	"bg": "Bulgarian", "bul": "Bulgarian",
	"lt": "Lithuanian", "lit": "Lithuanian",
	"lv": "Latvian", "lav": "Latvian",
	"et": "Estonian", "est": "Estonian",
	"sl": "Slovenian", "slv": "Slovenian",
	"sr": "Serbian", "srp": "Serbian",
	"fa": "Persian", "fas": "Persian", "per": "Persian",
	"ur": "Urdu", "urd": "Urdu",
	"sw": "Swahili", "swa": "Swahili",
	"cy": "Welsh", "cym": "Welsh", "wel": "Welsh",
	"ga": "Irish", "gle": "Irish",
	"is": "Icelandic", "isl": "Icelandic", "ice": "Icelandic",
	"eu": "Basque", "eus": "Basque", "baq": "Basque",
	"tl": "Tagalog", "tgl": "Tagalog", "fil": "Tagalog",
}

// nameToDisplay maps lowercase language names (including common
// aliases) to display names.
//
//nolint:gochecknoglobals // Static lookup table
var nameToDisplay = map[string]string{
	"english": "English", "spanish": "Spanish", "french": "French",
	"german": "German", "italian": "Italian", "portuguese": "Portuguese",
	"dutch": "Dutch", "russian": "Russian", "japanese": "Japanese",
	"chinese": "Chinese", "mandarin": "Chinese", "cantonese": "Chinese",
	"korean": "Korean", "arabic": "Arabic", "hindi": "Hindi",
	"polish": "Polish", "swedish": "Swedish", "norwegian": "Norwegian",
	"danish": "Danish", "finnish": "Finnish", "turkish": "Turkish",
	"greek": "Greek", "hebrew": "Hebrew", "czech": "Czech",
	"hungarian": "Hungarian", "romanian": "Romanian", "thai": "Thai",
	"vietnamese": "Vietnamese", "indonesian": "Indonesian",
	"ukrainian": "Ukrainian", "catalan": "Catalan", "croatian": "Croatian",
	"slovak": "Slovak", "bulgarian": "Bulgarian", "lithuanian": "Lithuanian",
	"latvian": "Latvian", "estonian": "Estonian", "slovenian": "Slovenian",
	"serbian": "Serbian", "persian": "Persian", "farsi": "Persian",
	"urdu": "Urdu", "swahili": "Swahili", "welsh": "Welsh",
	"irish": "Irish", "icelandic": "Icelandic", "basque": "Basque",
	"tagalog": "Tagalog", "filipino": "Tagalog",
}

// Language canonicalizes a language to its display name. Accepts ISO
// 639-1/639-2 codes, locale codes like "en-US" or "pt_BR", and language
// names in any casing. Unknown values are returned trimmed as-is, so
// niche languages still round-trip.
func Language(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	key := strings.ToLower(trimmed)
	if name, ok := nameToDisplay[key]; ok {
		return name
	}

	// Strip a locale region suffix before the code lookup.
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	if name, ok := codeToName[key]; ok {
		return name
	}

	return trimmed
}

// Text trims a free-text field and collapses internal whitespace runs
// to single spaces.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
