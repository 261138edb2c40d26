package model

// Neighbour is one of the four adjacent cities stored in the parameter block.
type Neighbour struct {
	Name       int32 // Index into the game's name table
	Population int32
	Value      int32
	Fame       int32
}

// Budget is the budget sub-structure of the parameter block.
type Budget struct {
	Ordinances [20]bool
	Bonds      [50]int32
	Items      []SubBudget // Fixed order, see BudgetItemNames
}

// BudgetItemNames lists the sub-budgets in storage order.
var BudgetItemNames = []string{
	"residential", "commercial", "industrial", "ordinances", "bonds",
	"police", "fire", "health", "schools", "colleges",
	"road", "hiway", "bridge", "rail", "subway", "tunnel",
}

// Item returns the named sub-budget, or nil.
func (b *Budget) Item(name string) *SubBudget {
	for i := range b.Items {
		if b.Items[i].Name == name {
			return &b.Items[i]
		}
	}
	return nil
}

// SubBudget is one budget line: the current values plus twelve months of history.
type SubBudget struct {
	Name           string
	CurrentCount   int32
	CurrentFunding int32
	Unknown        int32
	Months         [12]MonthBudget // January first
}

// MonthBudget is one month of a budget line.
type MonthBudget struct {
	Count   int32
	Funding int32
}

// Graph is one XGRP history graph.
type Graph struct {
	Name    string
	Year    [12]int32 // Monthly, last year
	Decade  [20]int32 // Last ten years
	Century [20]int32 // Last hundred years
}

// GraphNames lists the XGRP graphs in storage order.
var GraphNames = []string{
	"City Size", "Residents", "Commerce", "Industry",
	"Traffic", "Pollution", "Value", "Crime",
	"Power %", "Water %", "Health", "Education",
	"Unemployment", "GNP", "Nat'n Pop.", "Fed Rate",
}

// Scenario is the optional scenario description of a city.
type Scenario struct {
	ShortText string
	LongText  string
	Goals     ScenarioGoals
	Picture   *Picture
}

// ScenarioGoals is the fixed SCEN goal record.
type ScenarioGoals struct {
	DisasterType    uint16
	DisasterX       uint8
	DisasterY       uint8
	TimeLimitMonths uint16
	CitySize        uint32
	Residential     uint32
	Commercial      uint32
	Industrial      uint32
	CashFlow        uint32
	LandValue       uint32
	PollutionLimit  uint32
	TrafficLimit    uint32
	CrimeLimit      uint32
	BuildItemOne    uint8
	BuildItemTwo    uint8
	ItemOneTiles    uint16
	ItemTwoTiles    uint16
}

// Picture is the 8-bit scenario preview image. Rows rejected by the
// end-of-row check are empty.
type Picture struct {
	Width  int
	Height int
	Rows   [][]byte
}

// MicroSim is an opaque XMIC record.
type MicroSim struct {
	Data [8]byte
}

// Thing is an XTHG record (sprites such as planes, boats and disasters).
type Thing struct {
	ID        uint8
	Rotation1 uint8
	Rotation2 uint8
	X         uint8
	Y         uint8
	Data      [7]byte
}
