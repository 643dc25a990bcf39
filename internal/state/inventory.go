package state

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
)

// Inventory holds the number of pieces of each species a player still has to place,
// indexed by Species.Slot.
type Inventory [NumSpecies]uint8

// InitialInventory at the start of a match: 1 Queen Bee, 2 Spiders, 2 Beetles,
// 3 Grasshoppers and 3 Soldier Ants. See also TotalPiecesPerPlayer.
var InitialInventory = Inventory{1, 2, 2, 3, 3}

// TotalPiecesPerPlayer is the sum of the InitialInventory.
const TotalPiecesPerPlayer = 11

// InventorySlot is one entry of an inventory snapshot.
type InventorySlot struct {
	Species   Species
	Remaining int
}

// Remaining returns how many pieces of the species are still off-board.
func (inv Inventory) Remaining(species Species) int {
	return int(inv[species.Slot()])
}

// Take removes one piece of the given species from the inventory. It panics if there is none
// left: callers must check Remaining first.
func (inv *Inventory) Take(species Species) {
	slot := species.Slot()
	if inv[slot] == 0 {
		exceptions.Panicf("no %s left in inventory to take", species)
	}
	inv[slot]--
}

// QueenPlaced returns whether the Queen Bee has left the inventory.
func (inv Inventory) QueenPlaced() bool {
	return inv.Remaining(QueenBee) == 0
}

// Count total number of pieces still in the inventory.
func (inv Inventory) Count() (count int) {
	for _, value := range inv {
		count += int(value)
	}
	return
}

// Slots returns the ordered list of species and how many of each remain.
func (inv Inventory) Slots() []InventorySlot {
	slots := make([]InventorySlot, NumSpecies)
	for ii, species := range AllSpecies {
		slots[ii] = InventorySlot{Species: species, Remaining: int(inv[ii])}
	}
	return slots
}

// String lists the remaining pieces, e.g. "Q-1, S-2, B-1".
func (inv Inventory) String() string {
	parts := make([]string, 0, NumSpecies)
	for ii, species := range AllSpecies {
		if inv[ii] > 0 {
			parts = append(parts, fmt.Sprintf("%s-%d", species.Letter(), inv[ii]))
		}
	}
	return strings.Join(parts, ", ")
}
