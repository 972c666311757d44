package engine

import "fmt"

// Draw picks one reward from the box uniformly at random.
// A nil rng falls back to DefaultRandom.
func Draw(box Box, rng RandomSource) (Reward, error) {
	if !box.Openable() {
		return Reward{}, fmt.Errorf("%w: %s", ErrInvalidBox, box.ID)
	}
	if rng == nil {
		rng = DefaultRandom()
	}
	return box.Rewards[rng.IntN(len(box.Rewards))], nil
}
