package er

// Hard-coded option defaults per object kind. Each call returns a fresh set.

func DefaultTitleOptions() Options {
	return Options{"size": NumberValue(30)}
}

func DefaultHeaderOptions() Options {
	return Options{"size": NumberValue(16)}
}

func DefaultEntityOptions() Options {
	return Options{
		"border":      Uint8Value(0),
		"cellborder":  Uint8Value(1),
		"cellspacing": Uint8Value(0),
		"cellpadding": Uint8Value(4),
		"font":        TextValue("Helvetica"),
	}
}

func DefaultAttributeOptions() Options {
	return Options{"text-alignment": TextValue("LEFT")}
}

func DefaultRelationshipOptions() Options {
	return Options{}
}
