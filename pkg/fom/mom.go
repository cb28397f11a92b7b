package fom

// Management object model names.
const (
	ManagerClassName   = "Manager"
	MOMFederateClass   = ObjectRootName + "." + ManagerClassName + ".Federate"
	MOMFederateHandle  = "FederateHandle"
	MOMFederateType    = "FederateType"
	MOMTimeConstrained = "TimeConstrained"
	MOMTimeRegulating  = "TimeRegulating"
	MOMFederateTime    = "FederateTime"
	MOMLookahead       = "Lookahead"
)

func managerDocument() ObjectClassDoc {
	return ObjectClassDoc{
		Name: ManagerClassName,
		Classes: []ObjectClassDoc{{
			Name: "Federate",
			Attributes: []AttributeDoc{
				{Name: MOMFederateHandle},
				{Name: MOMFederateType},
				{Name: MOMTimeConstrained},
				{Name: MOMTimeRegulating},
				{Name: MOMFederateTime},
				{Name: MOMLookahead},
			},
		}},
	}
}
