// Package dedup implements the three duplicate predicates over the ledger's
// accepted entries: exact text, geographic proximity and perceptual image
// hash. Each predicate is a read-only scan; the ledger remains the ground
// truth.
package dedup

import (
	"fmt"
	"strings"

	"github.com/golang/geo/s2"

	"report-validation-pipeline/ledger"
	"report-validation-pipeline/models"
	"report-validation-pipeline/phash"
)

// earthRadiusMeters is the sphere radius used by the haversine distance.
const earthRadiusMeters = 6371000.0

// S2 cell prefilter for location scans. At level 15 the minimum cell edge is
// roughly 210 m, so two points within prefilterMaxThreshold meters of each
// other are always in the same cell or one of its eight neighbors. For larger
// thresholds the prefilter is disabled and every entry gets the full
// haversine comparison.
const (
	prefilterLevel        = 15
	prefilterMaxThreshold = 100.0
)

// Detector answers the three duplicate questions against the ledger.
type Detector struct {
	ledger            *ledger.Ledger
	locationThreshold float64
	hashThreshold     int
}

// New creates a detector. locationThreshold is in meters; hashThreshold is
// the maximum Hamming distance at which two image hashes count as duplicates.
func New(l *ledger.Ledger, locationThreshold float64, hashThreshold int) *Detector {
	return &Detector{
		ledger:            l,
		locationThreshold: locationThreshold,
		hashThreshold:     hashThreshold,
	}
}

// IsTextDuplicate reports whether an accepted entry exists with the same
// normalized user ID, description and category. Exact match only.
func (d *Detector) IsTextDuplicate(userID, description, category string) (bool, error) {
	accepted, err := d.ledger.Accepted()
	if err != nil {
		return false, fmt.Errorf("text duplicate check: %w", err)
	}

	user := NormalizeUser(userID)
	desc := NormalizeText(description)
	cat := strings.ToLower(category)

	for i := range accepted {
		entry := &accepted[i]
		if NormalizeUser(entry.UserID) == user &&
			NormalizeText(entry.Description) == desc &&
			strings.ToLower(entry.Category) == cat {
			return true, nil
		}
	}
	return false, nil
}

// IsLocationDuplicate reports whether an accepted entry of the same category
// lies within the distance threshold of the given coordinates. Entries
// without coordinates are exempt from the comparison.
func (d *Detector) IsLocationDuplicate(lat, lon float64, category string) (bool, error) {
	accepted, err := d.ledger.Accepted()
	if err != nil {
		return false, fmt.Errorf("location duplicate check: %w", err)
	}

	cat := strings.ToLower(category)

	usePrefilter := d.locationThreshold <= prefilterMaxThreshold
	var nearby map[s2.CellID]bool
	if usePrefilter {
		nearby = neighborCells(lat, lon)
	}

	for i := range accepted {
		entry := &accepted[i]
		if strings.ToLower(entry.Category) != cat || !entry.HasLocation() {
			continue
		}
		if usePrefilter {
			cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(*entry.Latitude, *entry.Longitude)).Parent(prefilterLevel)
			if !nearby[cell] {
				continue
			}
		}
		if Haversine(lat, lon, *entry.Latitude, *entry.Longitude) <= d.locationThreshold {
			return true, nil
		}
	}
	return false, nil
}

// IsImageDuplicate reports whether an accepted entry stores an image hash
// within the Hamming-distance threshold of the candidate hash. Entries
// without a hash are skipped, as are entries whose stored hash fails to
// parse.
func (d *Detector) IsImageDuplicate(hash string) (bool, error) {
	accepted, err := d.ledger.Accepted()
	if err != nil {
		return false, fmt.Errorf("image duplicate check: %w", err)
	}

	for i := range accepted {
		entry := &accepted[i]
		if entry.ImageHash == "" {
			continue
		}
		dist, err := phash.Distance(hash, entry.ImageHash)
		if err != nil {
			continue
		}
		if dist <= d.hashThreshold {
			return true, nil
		}
	}
	return false, nil
}

// neighborCells returns the level-15 cell containing the point plus its eight
// neighbors, as a lookup set.
func neighborCells(lat, lon float64) map[s2.CellID]bool {
	center := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(prefilterLevel)
	cells := map[s2.CellID]bool{center: true}
	for _, c := range center.AllNeighbors(prefilterLevel) {
		cells[c] = true
	}
	return cells
}

// NormalizeText lowercases a string and collapses internal whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeUser normalizes a user ID, substituting the anonymous sentinel
// when it is empty.
func NormalizeUser(userID string) string {
	user := strings.ToLower(strings.TrimSpace(userID))
	if user == "" {
		return models.AnonymousUser
	}
	return user
}
