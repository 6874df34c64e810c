// Package classify splits dependency-ordered package waves by build method
// and checks which declared dependencies the system already satisfies.
package classify

import (
	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// Partitioned is the result of splitting waves by package variant. Prebuilt
// packages from all waves are flattened into one batch because their install
// order does not matter; buildable packages stay grouped per wave, in input
// order, because a wave may only build once every earlier wave is installed.
type Partitioned struct {
	Prebuilt   []model.Prebuilt
	BuildWaves [][]model.Buildable
}

// Partition separates each wave's packages into prebuilt and buildable.
// Waves that contain only prebuilt packages contribute nothing to
// BuildWaves. Both the outer sequence and each wave must be non-empty.
func Partition(waves [][]model.Package) (*Partitioned, error) {
	if len(waves) == 0 {
		return nil, ErrNoWaves
	}

	out := &Partitioned{}
	for i, wave := range waves {
		if len(wave) == 0 {
			return nil, errors.Wrapf(ErrEmptyWave, "wave %d", i)
		}
		var buildable []model.Buildable
		for _, pkg := range wave {
			switch p := pkg.(type) {
			case model.Prebuilt:
				out.Prebuilt = append(out.Prebuilt, p)
			case model.Buildable:
				buildable = append(buildable, p)
			default:
				return nil, errors.Wrapf(errors.ErrUnknownPackageKind, "wave %d: %T", i, pkg)
			}
		}
		if len(buildable) > 0 {
			out.BuildWaves = append(out.BuildWaves, buildable)
		}
	}

	return out, nil
}
