package preprocess

import (
	"fmt"
	"sort"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
)

// OtherCategory replaces values that fall outside the most frequent categories.
const OtherCategory = "other"

// ApplyOneHotEncoding replaces every categorical column with 0/1 dummy
// columns named <col>_<value>. When a column has more than maxCategories
// distinct values only the most frequent are kept and the rest collapse into
// OtherCategory; maxCategories <= 0 keeps them all. Dummies are appended after
// the untouched columns, sorted by value within each source column. Rows with
// a missing value get 0 in every dummy. The encoded column names are returned
// in their original order.
func ApplyOneHotEncoding(ds *dataset.Dataset, maxCategories int) (*dataset.Dataset, []string) {
	encoded := []string{}
	taken := make(map[string]struct{}, len(ds.Columns))
	for _, c := range ds.Columns {
		if typeOf(c.Kind) != Categorical {
			taken[c.Name] = struct{}{}
			continue
		}
		encoded = append(encoded, c.Name)
	}
	if len(encoded) == 0 {
		return ds.Clone(), encoded
	}

	var dummies []dataset.Column
	for _, name := range encoded {
		c, _ := ds.Column(name)
		values := collapse(c, maxCategories)
		cats := categories(values, c.Valid)
		for _, cat := range cats {
			d := dataset.Column{
				Name:  uniqueName(fmt.Sprintf("%s_%s", c.Name, cat), taken),
				Kind:  dataset.KindNumeric,
				Num:   make([]float64, ds.Rows),
				Raw:   make([]string, ds.Rows),
				Valid: make([]bool, ds.Rows),
			}
			for i := range values {
				d.Valid[i] = true
				d.Raw[i] = "0"
				if c.Valid[i] && values[i] == cat {
					d.Num[i] = 1
					d.Raw[i] = "1"
				}
			}
			dummies = append(dummies, d)
		}
	}

	out := ds.Drop(encoded...)
	out.Columns = append(out.Columns, dummies...)
	return out, encoded
}

// collapse returns the column's values with infrequent categories folded into
// OtherCategory. Frequency ties keep the value seen first.
func collapse(c *dataset.Column, maxCategories int) []string {
	values := append([]string(nil), c.Raw...)
	counts := map[string]int{}
	var order []string
	for i, v := range c.Raw {
		if !c.Valid[i] {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if maxCategories <= 0 || len(order) <= maxCategories {
		return values
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	top := make(map[string]struct{}, maxCategories)
	for _, v := range order[:maxCategories] {
		top[v] = struct{}{}
	}
	for i, v := range values {
		if !c.Valid[i] {
			continue
		}
		if _, ok := top[v]; !ok {
			values[i] = OtherCategory
		}
	}
	return values
}

func categories(values []string, valid []bool) []string {
	seen := map[string]struct{}{}
	var out []string
	for i, v := range values {
		if !valid[i] {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// uniqueName suffixes .1, .2, ... until name no longer clashes, then reserves it.
func uniqueName(name string, taken map[string]struct{}) string {
	candidate := name
	for n := 1; ; n++ {
		if _, ok := taken[candidate]; !ok {
			break
		}
		candidate = fmt.Sprintf("%s.%d", name, n)
	}
	taken[candidate] = struct{}{}
	return candidate
}
