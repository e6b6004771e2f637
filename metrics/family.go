package metrics

import (
	"fmt"
	"sort"
)

// Metric family names
const (
	FamilyIoU            = "iou"
	FamilyCellIoU        = "cell_iou"
	FamilyIoUThreshold   = "iou_threshold"
	FamilyText           = "text"
	FamilyTextThreshold  = "text_threshold"
	FamilyCompleteness   = "completeness"
	FamilyPurity         = "purity"
	FamilyTSRShare       = "tsr_share"
	FamilyPixel          = "pixel"
	FamilyPixelThreshold = "pixel_threshold"
)

// Metric keys
const (
	KeyIoU            = "iou"
	KeyCellIoU        = "cell_iou"
	KeyTextSimilarity = "text_similarity"
	KeyCompleteness   = "completeness"
	KeyPurity         = "purity"
	KeyTSRShare       = "tsr_share"
	KeyFPA            = "fpa"
)

// Family describes a group of related metric keys that are enabled together
type Family struct {
	// Name identifies the family in configuration
	Name string

	// Description is a one-line human readable summary
	Description string

	// Keys are the emitted metric keys; for threshold families they are
	// prefixes suffixed with "@τ"
	Keys []string

	// Threshold is set for families evaluated once per cutoff
	Threshold bool

	// NeedsImage is set for families that sample the source page image
	NeedsImage bool
}

// MetricKeys expands the family's keys for the given thresholds
func (f Family) MetricKeys(thresholds []float64) []string {
	if !f.Threshold {
		return append([]string(nil), f.Keys...)
	}
	out := make([]string, 0, len(f.Keys)*len(thresholds))
	for _, tau := range thresholds {
		for _, k := range f.Keys {
			out = append(out, ThresholdKey(k, tau))
		}
	}
	return out
}

// ThresholdKey names a metric evaluated at cutoff tau
func ThresholdKey(prefix string, tau float64) string {
	return fmt.Sprintf("%s@%.2f", prefix, tau)
}

// FamilyRegistry holds registered metric families
type FamilyRegistry struct {
	families map[string]Family
	order    []string
}

// NewRegistry creates a new family registry
func NewRegistry() *FamilyRegistry {
	return &FamilyRegistry{
		families: make(map[string]Family),
	}
}

// Register registers a family; re-registering a name replaces it
func (r *FamilyRegistry) Register(f Family) {
	if _, ok := r.families[f.Name]; !ok {
		r.order = append(r.order, f.Name)
	}
	r.families[f.Name] = f
}

// Get retrieves a family by name
func (r *FamilyRegistry) Get(name string) (Family, bool) {
	f, ok := r.families[name]
	return f, ok
}

// List returns all registered family names in registration order
func (r *FamilyRegistry) List() []string {
	return append([]string(nil), r.order...)
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterFamily registers a family globally
func RegisterFamily(f Family) {
	globalRegistry.Register(f)
}

// GetFamily retrieves a family by name
func GetFamily(name string) (Family, bool) {
	return globalRegistry.Get(name)
}

// ListFamilies returns all registered family names
func ListFamilies() []string {
	return globalRegistry.List()
}

// DefaultFamilies returns every registered family that does not need a
// page image
func DefaultFamilies() []string {
	var out []string
	for _, name := range globalRegistry.List() {
		if f, _ := globalRegistry.Get(name); !f.NeedsImage {
			out = append(out, name)
		}
	}
	return out
}

// ValidateFamilies returns an error naming the first unknown family
func ValidateFamilies(names []string) error {
	for _, n := range names {
		if _, ok := GetFamily(n); !ok {
			known := ListFamilies()
			sort.Strings(known)
			return fmt.Errorf("unknown metric family %q (known: %v)", n, known)
		}
	}
	return nil
}

// NeedsImage reports whether any of the named families samples page images
func NeedsImage(names []string) bool {
	for _, n := range names {
		if f, ok := GetFamily(n); ok && f.NeedsImage {
			return true
		}
	}
	return false
}

func init() {
	// Register default families
	RegisterFamily(Family{Name: FamilyIoU, Description: "dataset IoU over every region of the page", Keys: []string{KeyIoU}})
	RegisterFamily(Family{Name: FamilyCellIoU, Description: "dataset IoU over the cells of each table", Keys: []string{KeyCellIoU}})
	RegisterFamily(Family{Name: FamilyIoUThreshold, Description: "cell overlap precision/recall/F1 per cutoff",
		Keys: []string{"iou_precision", "iou_recall", "iou_f1"}, Threshold: true})
	RegisterFamily(Family{Name: FamilyText, Description: "normalized edit similarity of cell text", Keys: []string{KeyTextSimilarity}})
	RegisterFamily(Family{Name: FamilyTextThreshold, Description: "cell text precision/recall/F1 per cutoff",
		Keys: []string{"text_precision", "text_recall", "text_f1"}, Threshold: true})
	RegisterFamily(Family{Name: FamilyCompleteness, Description: "share of rows and columns with the right cell count", Keys: []string{KeyCompleteness}})
	RegisterFamily(Family{Name: FamilyPurity, Description: "row and column cardinality agreement", Keys: []string{KeyPurity}})
	RegisterFamily(Family{Name: FamilyTSRShare, Description: "share of correct cell span indices", Keys: []string{KeyTSRShare}})
	RegisterFamily(Family{Name: FamilyPixel, Description: "foreground pixel accuracy of cells", Keys: []string{KeyFPA}, NeedsImage: true})
	RegisterFamily(Family{Name: FamilyPixelThreshold, Description: "foreground pixel precision/recall/F1 per cutoff",
		Keys: []string{"fpa_precision", "fpa_recall", "fpa_f1"}, Threshold: true, NeedsImage: true})
}
