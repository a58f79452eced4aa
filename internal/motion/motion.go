// Package motion reads a user-motion CSV trajectory file, the receiver
// position/velocity track a scheduler replays at 10 Hz when the
// simulator is not pinned to one static location.
//
// Grounded on original_source/gps.c's readUserMotion.
package motion

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
)

// MaxPoints bounds a single motion file to 24 hours at 10 Hz, matching
// USER_MOTION_SIZE.
const MaxPoints = 864000

// Point is one "t,x,y,z" row: elapsed seconds since scenario start and
// an ECEF position.
type Point struct {
	T   float64
	Xyz gnsstime.Ecef
}

// Load reads up to MaxPoints "t,x,y,z" CSV rows from fname. Rows that
// fail to parse end the read early (matching the original's sscanf
// early-return), returning whatever points were read so far.
func Load(fname string) ([]Point, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open motion file %s", fname)
	}
	defer f.Close()

	var points []Point
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(points) < MaxPoints {
		fields := strings.Split(strings.TrimSpace(sc.Text()), ",")
		if len(fields) < 4 {
			break
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			break
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			break
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			break
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			break
		}

		points = append(points, Point{T: t, Xyz: gnsstime.Ecef{X: x, Y: y, Z: z}})
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read motion file %s", fname)
	}
	return points, nil
}
