// Package components defines the data types shared by the simulation packages:
// agents, the species table, and food source components stored in the ECS world.
package components

// Agent is one simulated particle.
// Agents have no identity beyond their slot in the population array.
type Agent struct {
	Pos       Position
	Heading   float32 // radians
	SpeciesID uint8   // index into the species table, fixed at creation
	Hunger    float32 // [0,1], 1 = fully fed
}

// FoodSite is the ECS position component of a food source.
// Sources are identified by position; two sources never share one.
type FoodSite struct {
	Pos Position
}

// FoodStock is the ECS supply component of a food source.
type FoodStock struct {
	Strength float32 // attractor strength stamped into the food field
	Amount   float32 // remaining depletable quantity, never below 0
}

// Exhausted reports whether the source has nothing left to give.
func (s FoodStock) Exhausted() bool {
	return s.Amount <= 0
}

// FoodSource is a flattened food source, used for rasterization and persistence.
type FoodSource struct {
	Pos      Position `json:"pos"`
	Strength float32  `json:"strength"`
	Amount   float32  `json:"amount"`
}
