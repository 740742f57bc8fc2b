package voiceprovider

// builtinCatalog is the demo voice set served whenever no vendor credential
// is configured or the vendor listing call fails. IDs are stable so stored
// generation records keep meaning across demo and live postures.
var builtinCatalog = []Voice{
	{ID: "demo-rachel", Name: "Rachel", Category: "premade", Description: "Calm and clear narration voice", Labels: map[string]string{"gender": "female", "accent": "american", "age": "young", "use_case": "narration", "language": "en"}},
	{ID: "demo-drew", Name: "Drew", Category: "premade", Description: "Well-rounded news delivery", Labels: map[string]string{"gender": "male", "accent": "american", "age": "middle_aged", "use_case": "news", "language": "en"}},
	{ID: "demo-clyde", Name: "Clyde", Category: "premade", Description: "Gravelly character voice", Labels: map[string]string{"gender": "male", "accent": "american", "age": "middle_aged", "use_case": "characters", "language": "en"}},
	{ID: "demo-domi", Name: "Domi", Category: "premade", Description: "Strong and confident", Labels: map[string]string{"gender": "female", "accent": "american", "age": "young", "use_case": "narration", "language": "en"}},
	{ID: "demo-fin", Name: "Fin", Category: "premade", Description: "Aged sailor storyteller", Labels: map[string]string{"gender": "male", "accent": "irish", "age": "old", "use_case": "characters", "language": "en"}},
	{ID: "demo-sarah", Name: "Sarah", Category: "premade", Description: "Soft conversational tone", Labels: map[string]string{"gender": "female", "accent": "american", "age": "young", "use_case": "conversational", "language": "en"}},
	{ID: "demo-antoni", Name: "Antoni", Category: "premade", Description: "Warm narration with depth", Labels: map[string]string{"gender": "male", "accent": "american", "age": "young", "use_case": "narration", "language": "en"}},
	{ID: "demo-thomas", Name: "Thomas", Category: "premade", Description: "Calm meditation guide", Labels: map[string]string{"gender": "male", "accent": "american", "age": "young", "use_case": "meditation", "language": "en"}},
	{ID: "demo-charlie", Name: "Charlie", Category: "premade", Description: "Casual Australian voice", Labels: map[string]string{"gender": "male", "accent": "australian", "age": "middle_aged", "use_case": "conversational", "language": "en"}},
	{ID: "demo-emily", Name: "Emily", Category: "premade", Description: "Gentle audiobook reader", Labels: map[string]string{"gender": "female", "accent": "american", "age": "young", "use_case": "audiobook", "language": "en"}},
	{ID: "demo-george", Name: "George", Category: "premade", Description: "Measured British narration", Labels: map[string]string{"gender": "male", "accent": "british", "age": "middle_aged", "use_case": "narration", "language": "en"}},
}

// BuiltinVoices returns a copy of the demo catalog.
func BuiltinVoices() []Voice {
	out := make([]Voice, len(builtinCatalog))
	copy(out, builtinCatalog)
	return out
}
