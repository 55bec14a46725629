package warn

// TODO: pick a better name
func Thing() {}
