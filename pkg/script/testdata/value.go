package pets

var Default = map[string]any{"name": "Corgi", "legs": 4}
