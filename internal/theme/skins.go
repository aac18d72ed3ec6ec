package theme

// Submarine is the deep-sea dive skin.
var Submarine = Theme{
	ID:           "submarine",
	Vehicle:      "submarine",
	Mission:      "dive",
	ResourceName: "energy",
	SubPhases:    [5]string{"launch", "descent", "cruise", "ascent", "docking"},
	Checklist: map[ChecklistKey]string{
		ItemPower:          "Battery systems ON",
		ItemReactor:        "Nuclear reactor ACTIVE",
		ItemSensors:        "Sonar systems ACTIVE",
		ItemPumps:          "Energy converters ON",
		ItemLights:         "External lights ON",
		ItemWarningSign:    "Depth warning ON",
		ItemControlSurface: "Diving planes set (10°+)",
		ItemBrake:          "Anchor RELEASED",
	},
	SafetyLabels: map[SafetyCheck]string{
		CheckEnvironment: "Hull pressure test",
		CheckCrew:        "Crew briefing",
		CheckSupplies:    "Life support supplies",
		CheckDocuments:   "Dive documents",
	},
	ControlSurface: "diving planes",
	Gauge:          Gauge{Name: "depth", Unit: "m", Cruise: 500, MaxSpeed: 25},
	Routes: []Route{
		{
			Departure:        Port{Code: "SD", Name: "San Diego Naval Base", City: "San Diego", Country: "USA"},
			Destination:      Port{Code: "PH", Name: "Pearl Harbor", City: "Honolulu", Country: "USA"},
			Alternate:        Port{Code: "GU", Name: "Apra Harbor", City: "Guam", Country: "USA"},
			DistanceNM:       2272,
			EstimatedMinutes: 5500,
			ResourceRequired: 85,
		},
		{
			Departure:        Port{Code: "NF", Name: "Norfolk Naval Station", City: "Norfolk", Country: "USA"},
			Destination:      Port{Code: "PL", Name: "Plymouth Sound", City: "Plymouth", Country: "UK"},
			Alternate:        Port{Code: "BH", Name: "Belfast Harbour", City: "Belfast", Country: "UK"},
			DistanceNM:       3000,
			EstimatedMinutes: 7200,
			ResourceRequired: 95,
		},
		{
			Departure:        Port{Code: "PH", Name: "Pearl Harbor", City: "Honolulu", Country: "USA"},
			Destination:      Port{Code: "MT", Name: "Mariana Trench", City: "Challenger Deep", Country: "International"},
			Alternate:        Port{Code: "GU", Name: "Apra Harbor", City: "Guam", Country: "USA"},
			DistanceNM:       3800,
			EstimatedMinutes: 9000,
			ResourceRequired: 98,
		},
	},
	Failure: Failure{
		MultipleErrors: "Multiple critical errors. Vessel integrity lost. Emergency hull breach.",
		ResourceOut:    "Energy exhausted. Emergency surfacing required.",
		CriticalSafety: "Critical safety errors. Submarine hull integrity compromised.",
		TimeoutMessage: "Decision timed out! Critical delay caused additional problems.",
		SuccessMessage: "Docking complete. The submarine is secured at port.",
	},
	Advisories: Advisories{
		PowerOnline:    "Battery arrays online. Main power stable.",
		SensorsActive:  "Sonar pulse active. Deep sea mapping initiated.",
		PumpsRunning:   "Energy converters running at 100% capacity.",
		WarningSignOff: "Safety Protocol: Activate the Depth Warning sign before diving.",
	},
}

// Aircraft is the airline flight skin.
var Aircraft = Theme{
	ID:           "aircraft",
	Vehicle:      "aircraft",
	Mission:      "flight",
	ResourceName: "fuel",
	SubPhases:    [5]string{"takeoff", "climb", "cruise", "descent", "landing"},
	Checklist: map[ChecklistKey]string{
		ItemPower:          "Battery master ON",
		ItemReactor:        "APU running",
		ItemSensors:        "Avionics ON",
		ItemPumps:          "Fuel pumps ON",
		ItemLights:         "Navigation lights ON",
		ItemWarningSign:    "Seatbelt sign ON",
		ItemControlSurface: "Flaps set (10°+)",
		ItemBrake:          "Parking brake RELEASED",
	},
	SafetyLabels: map[SafetyCheck]string{
		CheckEnvironment: "Weather briefing",
		CheckCrew:        "Crew briefing",
		CheckSupplies:    "Cargo and catering",
		CheckDocuments:   "Flight documents",
	},
	ControlSurface: "flaps",
	Gauge:          Gauge{Name: "altitude", Unit: "ft", Cruise: 35000, MaxSpeed: 480},
	Routes: []Route{
		{
			Departure:        Port{Code: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "USA"},
			Destination:      Port{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA"},
			Alternate:        Port{Code: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "USA"},
			DistanceNM:       2145,
			EstimatedMinutes: 330,
			ResourceRequired: 80,
		},
		{
			Departure:        Port{Code: "LHR", Name: "London Heathrow", City: "London", Country: "UK"},
			Destination:      Port{Code: "CDG", Name: "Paris Charles de Gaulle", City: "Paris", Country: "France"},
			Alternate:        Port{Code: "BRU", Name: "Brussels Airport", City: "Brussels", Country: "Belgium"},
			DistanceNM:       188,
			EstimatedMinutes: 75,
			ResourceRequired: 35,
		},
		{
			Departure:        Port{Code: "SIN", Name: "Singapore Changi", City: "Singapore", Country: "Singapore"},
			Destination:      Port{Code: "SYD", Name: "Sydney Kingsford Smith", City: "Sydney", Country: "Australia"},
			Alternate:        Port{Code: "MEL", Name: "Melbourne Airport", City: "Melbourne", Country: "Australia"},
			DistanceNM:       3410,
			EstimatedMinutes: 470,
			ResourceRequired: 92,
		},
	},
	Failure: Failure{
		MultipleErrors: "Multiple critical errors. Aircraft control lost. Emergency landing declared.",
		ResourceOut:    "Fuel exhausted. Forced landing required.",
		CriticalSafety: "Critical safety errors. Airframe integrity compromised.",
		TimeoutMessage: "Decision timed out! Critical delay caused additional problems.",
		SuccessMessage: "Touchdown confirmed. The aircraft is parked at the gate.",
	},
	Advisories: Advisories{
		PowerOnline:    "Battery master on. Electrical bus powered.",
		SensorsActive:  "Avionics online. Flight displays aligned.",
		PumpsRunning:   "Fuel pumps running. Feed pressure normal.",
		WarningSignOff: "Safety Protocol: Switch the seatbelt sign on before taxi.",
	},
}
