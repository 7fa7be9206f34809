package pets

func Default() []string { return []string{"corgi"} }
