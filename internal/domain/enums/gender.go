package enums

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type LookingFor string

const (
	LookingForMale   LookingFor = "male"
	LookingForFemale LookingFor = "female"
	LookingForBoth   LookingFor = "both"
)
