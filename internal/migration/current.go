package migration

import (
	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage"
)

// EncodeState queues the generation 3 documents for state onto b. An empty
// selection removes the pointer key.
func EncodeState(b *storage.Batch, state models.State) error {
	hamsters := state.Hamsters
	if hamsters == nil {
		hamsters = []models.Hamster{}
	}
	for i := range hamsters {
		if hamsters[i].Data == nil {
			hamsters[i].Data = []models.Entry{}
		}
	}

	if err := b.PutJSON(constants.KeyHamsters, hamsters); err != nil {
		return err
	}
	if err := b.PutJSON(constants.KeySettings, state.Settings); err != nil {
		return err
	}
	if state.CurrentID == "" {
		b.Delete(constants.KeyCurrentHamster)
	} else {
		b.Put(constants.KeyCurrentHamster, state.CurrentID)
	}
	return nil
}
