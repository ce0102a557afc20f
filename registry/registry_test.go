package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEverySectorHasFourHouses(t *testing.T) {
	for _, sector := range Sectors() {
		assert.Len(t, HousesInSector(sector), 4, string(sector))
	}
	assert.Empty(t, HousesInSector(Global))
}

func TestHousesAreSortedById(t *testing.T) {
	all := Houses()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Id, all[i].Id)
	}
}

func TestParseSector(t *testing.T) {
	s, ok := ParseSector(" upss ")
	assert.True(t, ok)
	assert.Equal(t, UPSS, s)

	s, ok = ParseSector("global")
	assert.True(t, ok)
	assert.Equal(t, Global, s)

	_, ok = ParseSector("MARS")
	assert.False(t, ok)
}

func TestInSector(t *testing.T) {
	assert.True(t, InSector("u1", UPSS))
	assert.False(t, InSector("u1", CAM))
	assert.False(t, InSector("x9", UPSS))
}
