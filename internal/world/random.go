package world

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

// NewDeterministicRNG is the default RNGFactory. Each label gets its own
// stream so adding draws to one subsystem never shifts another.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(streamSeed(rootSeed, label)))
}

func streamSeed(rootSeed, label string) int64 {
	h := fnv.New64a()
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(rootSeed)))
	h.Write(size[:])
	h.Write([]byte(rootSeed))
	h.Write([]byte(label))
	return int64(h.Sum64() | 1)
}

// ringPoint samples a point at a uniform angle around center, between
// minFrac and maxFrac of radius away from it.
func ringPoint(rng *rand.Rand, center geometry.Vec, radius, minFrac, maxFrac float64) geometry.Vec {
	angle := rng.Float64() * 2 * math.Pi
	frac := minFrac
	if maxFrac > minFrac {
		frac += rng.Float64() * (maxFrac - minFrac)
	}
	return center.Add(geometry.FromAngle(angle, frac*radius))
}

func randomRotation(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}
