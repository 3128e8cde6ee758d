package dedup

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jknair0/beforeeach"

	"report-validation-pipeline/ledger"
	"report-validation-pipeline/models"
)

var (
	tmpDir string
	lgr    *ledger.Ledger
)

func setUp() {
	tmpDir, _ = os.MkdirTemp("", "dedup-test-")
	lgr, _ = ledger.Open(filepath.Join(tmpDir, "ledger.jsonl"))
}

func tearDown() {
	lgr.Close()
	os.RemoveAll(tmpDir)
}

var it = beforeeach.Create(setUp, tearDown)

func acceptedEntry(userID, description, category string) *models.LedgerEntry {
	return &models.LedgerEntry{
		ReportID:    "seed",
		UserID:      userID,
		Description: description,
		Category:    category,
		Confidence:  0.5,
		Accepted:    true,
		Status:      models.StatusAccepted,
		Reason:      "Report accepted successfully",
		Timestamp:   time.Now().UTC(),
	}
}

func locatedEntry(category string, lat, lon float64) *models.LedgerEntry {
	entry := acceptedEntry("user-1", "seed description", category)
	entry.Latitude = &lat
	entry.Longitude = &lon
	return entry
}

func TestIsTextDuplicate(t *testing.T) {
	it(func() {
		d := New(lgr, 10.0, 0)

		if err := lgr.Append(acceptedEntry("User-1", "Broken  streetlight on MG Road", "Street Lighting")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		rejectedEntry := acceptedEntry("user-2", "garbage pile near park", "Garbage & Sanitation")
		rejectedEntry.Accepted = false
		rejectedEntry.Status = models.StatusRejected
		if err := lgr.Append(rejectedEntry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		tests := []struct {
			name        string
			userID      string
			description string
			category    string
			want        bool
		}{
			{
				name:        "exact normalized match",
				userID:      "user-1",
				description: "broken streetlight on mg road",
				category:    "street lighting",
				want:        true,
			},
			{
				name:        "whitespace and case differences collapse",
				userID:      "USER-1",
				description: "  Broken streetlight   on MG Road  ",
				category:    "Street Lighting",
				want:        true,
			},
			{
				name:        "different user is not a duplicate",
				userID:      "user-2",
				description: "broken streetlight on mg road",
				category:    "Street Lighting",
				want:        false,
			},
			{
				name:        "different description is not a duplicate",
				userID:      "user-1",
				description: "broken streetlight on station road",
				category:    "Street Lighting",
				want:        false,
			},
			{
				name:        "different category is not a duplicate",
				userID:      "user-1",
				description: "broken streetlight on mg road",
				category:    "Electricity",
				want:        false,
			},
			{
				name:        "rejected entries never count as precedent",
				userID:      "user-2",
				description: "garbage pile near park",
				category:    "Garbage & Sanitation",
				want:        false,
			},
		}

		for _, tc := range tests {
			got, err := d.IsTextDuplicate(tc.userID, tc.description, tc.category)
			if err != nil {
				t.Fatalf("%s: IsTextDuplicate() error = %v", tc.name, err)
			}
			if got != tc.want {
				t.Errorf("%s: IsTextDuplicate() = %v, want %v", tc.name, got, tc.want)
			}
		}
	})
}

func TestIsTextDuplicateAnonymousSentinel(t *testing.T) {
	it(func() {
		d := New(lgr, 10.0, 0)

		entry := acceptedEntry("", "overflowing dustbin near market", "Garbage & Sanitation")
		entry.UserID = models.AnonymousUser
		if err := lgr.Append(entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		// A new anonymous submission of the same text must collide with the
		// stored sentinel identity.
		got, err := d.IsTextDuplicate("", "overflowing dustbin near market", "Garbage & Sanitation")
		if err != nil {
			t.Fatalf("IsTextDuplicate() error = %v", err)
		}
		if !got {
			t.Error("anonymous resubmission not detected as duplicate")
		}
	})
}

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "zero distance",
			lat1: 23.2599, lon1: 77.4126, lat2: 23.2599, lon2: 77.4126,
			want: 0, tolerance: 1e-9,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lon1: 0, lat2: 1, lon2: 0,
			want: 111194.93, tolerance: 0.01,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0, lat2: 0, lon2: 1,
			want: 111194.93, tolerance: 0.01,
		},
		{
			name: "small offset is under ten meters",
			lat1: 23.2599, lon1: 77.4126, lat2: 23.25998, lon2: 77.4126,
			want: 8.9, tolerance: 0.1,
		},
		{
			name: "slightly larger offset is over ten meters",
			lat1: 23.2599, lon1: 77.4126, lat2: 23.26002, lon2: 77.4126,
			want: 13.3, tolerance: 0.1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-tc.want) > tc.tolerance {
				t.Errorf("Haversine() = %v, want %v ± %v", got, tc.want, tc.tolerance)
			}
		})
	}
}

func TestIsLocationDuplicate(t *testing.T) {
	it(func() {
		d := New(lgr, 10.0, 0)

		if err := lgr.Append(locatedEntry("Street Lighting", 23.2599, 77.4126)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		// An entry without coordinates is exempt from the comparison.
		if err := lgr.Append(acceptedEntry("user-3", "another streetlight", "Street Lighting")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		tests := []struct {
			name     string
			lat, lon float64
			category string
			want     bool
		}{
			{
				name: "same point same category",
				lat:  23.2599, lon: 77.4126,
				category: "Street Lighting",
				want:     true,
			},
			{
				name: "within threshold",
				lat:  23.25998, lon: 77.4126,
				category: "Street Lighting",
				want:     true,
			},
			{
				name: "category comparison is case-insensitive",
				lat:  23.2599, lon: 77.4126,
				category: "street lighting",
				want:     true,
			},
			{
				name: "beyond threshold",
				lat:  23.26002, lon: 77.4126,
				category: "Street Lighting",
				want:     false,
			},
			{
				name: "same point different category",
				lat:  23.2599, lon: 77.4126,
				category: "Road & Traffic",
				want:     false,
			},
		}

		for _, tc := range tests {
			got, err := d.IsLocationDuplicate(tc.lat, tc.lon, tc.category)
			if err != nil {
				t.Fatalf("%s: IsLocationDuplicate() error = %v", tc.name, err)
			}
			if got != tc.want {
				t.Errorf("%s: IsLocationDuplicate() = %v, want %v", tc.name, got, tc.want)
			}
		}
	})
}

// TestLocationPrefilterMatchesFullScan checks that the S2 cell prefilter
// never changes the result of a plain haversine scan.
func TestLocationPrefilterMatchesFullScan(t *testing.T) {
	it(func() {
		const threshold = 10.0
		d := New(lgr, threshold, 0)

		rng := rand.New(rand.NewSource(42))
		baseLat, baseLon := 23.2599, 77.4126

		type point struct{ lat, lon float64 }
		var entries []point
		for i := 0; i < 150; i++ {
			p := point{
				lat: baseLat + (rng.Float64()-0.5)*0.0008,
				lon: baseLon + (rng.Float64()-0.5)*0.0008,
			}
			entries = append(entries, p)
			if err := lgr.Append(locatedEntry("Road & Traffic", p.lat, p.lon)); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		for i := 0; i < 100; i++ {
			qLat := baseLat + (rng.Float64()-0.5)*0.0008
			qLon := baseLon + (rng.Float64()-0.5)*0.0008

			want := false
			for _, p := range entries {
				if Haversine(qLat, qLon, p.lat, p.lon) <= threshold {
					want = true
					break
				}
			}

			got, err := d.IsLocationDuplicate(qLat, qLon, "Road & Traffic")
			if err != nil {
				t.Fatalf("IsLocationDuplicate() error = %v", err)
			}
			if got != want {
				t.Errorf("query (%v, %v): prefiltered scan = %v, full scan = %v", qLat, qLon, got, want)
			}
		}
	})
}

func TestIsImageDuplicate(t *testing.T) {
	it(func() {
		entry := acceptedEntry("user-1", "pothole photo", "Road & Traffic")
		entry.ImageHash = "a1b2c3d4e5f60718"
		if err := lgr.Append(entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		// Entries without a hash are skipped.
		if err := lgr.Append(acceptedEntry("user-2", "pothole without photo", "Road & Traffic")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		strict := New(lgr, 10.0, 0)

		got, err := strict.IsImageDuplicate("a1b2c3d4e5f60718")
		if err != nil {
			t.Fatalf("IsImageDuplicate() error = %v", err)
		}
		if !got {
			t.Error("identical hash not detected at threshold 0")
		}

		// One flipped bit misses at threshold 0 but hits at threshold 1.
		oneBitOff := "a1b2c3d4e5f60719"
		got, err = strict.IsImageDuplicate(oneBitOff)
		if err != nil {
			t.Fatalf("IsImageDuplicate() error = %v", err)
		}
		if got {
			t.Error("one-bit difference reported as duplicate at threshold 0")
		}

		loose := New(lgr, 10.0, 1)
		got, err = loose.IsImageDuplicate(oneBitOff)
		if err != nil {
			t.Fatalf("IsImageDuplicate() error = %v", err)
		}
		if !got {
			t.Error("one-bit difference not detected at threshold 1")
		}
	})
}
