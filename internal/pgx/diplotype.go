package pgx

import (
	"sort"

	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// ReferenceDiplotype is assumed when no actionable star allele was
// annotated for a gene (homozygous reference, normal function).
const ReferenceDiplotype = "*1/*1"

// InferDiplotype reduces the variant records detected for one gene to a
// single diplotype string. This is a heuristic over annotated star tags,
// not a phasing algorithm: zygosity is never inferred from read depth or
// allele fraction.
//
// Zero distinct tags yields ReferenceDiplotype; one tag yields the
// homozygous diplotype; two or more yield the two lexicographically
// smallest tags joined with "/". The result is independent of input order.
func InferDiplotype(variants []*vcf.VariantRecord) string {
	distinct := make(map[string]struct{})
	for _, v := range variants {
		if v.Star != "" && v.Star != "." {
			distinct[v.Star] = struct{}{}
		}
	}

	stars := make([]string, 0, len(distinct))
	for s := range distinct {
		stars = append(stars, s)
	}
	sort.Strings(stars)

	switch len(stars) {
	case 0:
		return ReferenceDiplotype
	case 1:
		return stars[0] + "/" + stars[0]
	default:
		return stars[0] + "/" + stars[1]
	}
}
