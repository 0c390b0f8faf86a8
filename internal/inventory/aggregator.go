// Package inventory computes derived storage-location views over the
// materials inventory. Nothing here is persisted; every summary reflects
// the rows it was handed.
package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyarchinit/archweb/internal/datastore"
)

// SampleAttributes carries the representative attributes of the first
// record seen in a group.
type SampleAttributes struct {
	TipoReperto string `json:"tipo_reperto"`
	Definizione string `json:"definizione"`
	Datazione   string `json:"datazione"`
}

// StorageGroup is one (storage location, box) bucket of material records.
type StorageGroup struct {
	StorageSite    string           `json:"luogo_conservazione"`
	BoxID          string           `json:"nr_cassa"`
	ItemCount      int              `json:"item_count"`
	Types          []string         `json:"types"`
	TotalWeight    float64          `json:"total_weight"`
	TotalFragments int              `json:"total_fragments"`
	Sample         SampleAttributes `json:"sample"`
	MemberIDs      []int            `json:"member_ids"`
}

// Summary is the full aggregation result. Records with a null storage
// location component are counted as unassigned rather than forming a
// misleading "none/none" group; records missing their identity field are
// counted as skipped and never folded into the unassigned bucket.
type Summary struct {
	Groups          []StorageGroup `json:"groups"`
	TotalItems      int            `json:"total_items"`
	UnassignedCount int            `json:"unassigned_count"`
	SkippedCount    int            `json:"skipped_count"`
}

type groupKey struct {
	site string
	box  string
}

// Aggregate groups material records by their physical storage location.
// Output order is deterministic: storage site case-insensitive ascending,
// then box id in natural order, ties broken by first-seen input order.
func Aggregate(materials []datastore.Material) Summary {
	summary := Summary{TotalItems: len(materials)}

	groups := make(map[groupKey]*StorageGroup)
	firstSeen := make(map[groupKey]int)
	typeSets := make(map[groupKey]map[string]struct{})

	for i := range materials {
		mat := &materials[i]

		if mat.ID == 0 {
			summary.SkippedCount++
			continue
		}

		site, box, ok := storageKey(mat)
		if !ok {
			summary.UnassignedCount++
			continue
		}

		key := groupKey{site: site, box: box}
		group, exists := groups[key]
		if !exists {
			group = &StorageGroup{
				StorageSite: site,
				BoxID:       box,
				Sample: SampleAttributes{
					TipoReperto: deref(mat.TipoReperto),
					Definizione: deref(mat.Definizione),
					Datazione:   deref(mat.DatazioneReperto),
				},
			}
			groups[key] = group
			firstSeen[key] = i
			typeSets[key] = make(map[string]struct{})
		}

		group.ItemCount++
		group.MemberIDs = append(group.MemberIDs, mat.ID)
		if mat.Peso != nil {
			group.TotalWeight += *mat.Peso
		}
		if mat.TotaleFrammenti != nil {
			group.TotalFragments += *mat.TotaleFrammenti
		}
		if t := deref(mat.TipoReperto); t != "" {
			typeSets[key][t] = struct{}{}
		}
	}

	summary.Groups = make([]StorageGroup, 0, len(groups))
	for key, group := range groups {
		group.Types = sortedKeys(typeSets[key])
		summary.Groups = append(summary.Groups, *group)
	}

	sort.SliceStable(summary.Groups, func(i, j int) bool {
		a, b := &summary.Groups[i], &summary.Groups[j]
		siteA, siteB := strings.ToLower(a.StorageSite), strings.ToLower(b.StorageSite)
		if siteA != siteB {
			return siteA < siteB
		}
		if cmp := naturalCompare(a.BoxID, b.BoxID); cmp != 0 {
			return cmp < 0
		}
		keyA := groupKey{site: a.StorageSite, box: a.BoxID}
		keyB := groupKey{site: b.StorageSite, box: b.BoxID}
		return firstSeen[keyA] < firstSeen[keyB]
	})

	return summary
}

// storageKey extracts the grouping key from a material record. A record
// with either component missing does not belong to any group.
func storageKey(mat *datastore.Material) (site, box string, ok bool) {
	if mat.LuogoConservazione == nil || *mat.LuogoConservazione == "" {
		return "", "", false
	}
	if mat.NrCassa == nil {
		return "", "", false
	}
	return *mat.LuogoConservazione, fmt.Sprintf("%d", *mat.NrCassa), true
}

// naturalCompare orders strings so that numeric runs compare by value:
// "2" sorts before "10", while non-numeric box labels fall back to
// lexicographic ordering.
func naturalCompare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		aDigits, aRest := splitLeading(a, isDigit)
		bDigits, bRest := splitLeading(b, isDigit)

		switch {
		case aDigits != "" && bDigits != "":
			// Compare numeric runs by magnitude: longer run of significant
			// digits wins, equal lengths compare lexicographically.
			at := strings.TrimLeft(aDigits, "0")
			bt := strings.TrimLeft(bDigits, "0")
			if len(at) != len(bt) {
				return len(at) - len(bt)
			}
			if at != bt {
				return strings.Compare(at, bt)
			}
			a, b = aRest, bRest
		case aDigits != "":
			return -1 // numbers sort before labels
		case bDigits != "":
			return 1
		default:
			aText, aRest := splitLeading(a, func(r byte) bool { return !isDigit(r) })
			bText, bRest := splitLeading(b, func(r byte) bool { return !isDigit(r) })
			if aText != bText {
				return strings.Compare(aText, bText)
			}
			a, b = aRest, bRest
		}
	}
	return len(a) - len(b)
}

func splitLeading(s string, match func(byte) bool) (head, tail string) {
	i := 0
	for i < len(s) && match(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
