package gen

func {
