package model

// Units
// 1. fin height / width / thickness in mm (as sized), grid coordinates in m
// 2. temperatures in K
// 3. heat flux in W/m^2, heat transfer coefficient in W/(m^2 K)

const (
	AmbientTemperature = 288.0 // initial field temperature, K
	NumFins            = 4
	MmToM              = 1e-3
)
