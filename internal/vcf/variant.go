// Package vcf provides VCF ingestion for pharmacogenomic analysis.
package vcf

import "strings"

// Gene is a supported pharmacogene symbol.
type Gene string

// The closed set of genes the engine has curated tables for.
const (
	GeneCYP2D6  Gene = "CYP2D6"
	GeneCYP2C19 Gene = "CYP2C19"
	GeneCYP2C9  Gene = "CYP2C9"
	GeneSLCO1B1 Gene = "SLCO1B1"
	GeneTPMT    Gene = "TPMT"
	GeneDPYD    Gene = "DPYD"
)

// SupportedGenes lists all genes the ingestor retains, in a fixed order.
var SupportedGenes = []Gene{
	GeneCYP2D6, GeneCYP2C19, GeneCYP2C9, GeneSLCO1B1, GeneTPMT, GeneDPYD,
}

// IsSupported reports whether the gene symbol is in the supported set.
func IsSupported(g Gene) bool {
	switch g {
	case GeneCYP2D6, GeneCYP2C19, GeneCYP2C9, GeneSLCO1B1, GeneTPMT, GeneDPYD:
		return true
	}
	return false
}

// Info holds the parsed INFO column of a VCF data row.
// Keys are upper-cased; flag tokens map to "TRUE".
type Info map[string]string

// Recognized INFO keys.
const (
	infoKeyGene      = "GENE"
	infoKeyStar      = "STAR"
	infoKeyHaplotype = "HAPLOTYPE"
	infoKeyRS        = "RS"
)

// ParseInfo parses a semicolon-separated INFO string into key-value pairs.
func ParseInfo(s string) Info {
	info := make(Info)
	if s == "." {
		return info
	}
	for _, token := range strings.Split(s, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if k, v, found := strings.Cut(token, "="); found {
			info[strings.ToUpper(k)] = v
		} else {
			info[strings.ToUpper(token)] = "TRUE"
		}
	}
	return info
}

// Gene returns the upper-cased GENE annotation, or "" if absent.
func (i Info) Gene() Gene {
	return Gene(strings.ToUpper(strings.TrimSpace(i[infoKeyGene])))
}

// Star returns the STAR annotation, falling back to HAPLOTYPE.
func (i Info) Star() string {
	if star, ok := i[infoKeyStar]; ok {
		return strings.TrimSpace(star)
	}
	return strings.TrimSpace(i[infoKeyHaplotype])
}

// RS returns the RS annotation, prefixed with "rs" when the value is bare.
// Returns "" if the key is absent.
func (i Info) RS() string {
	rs := strings.TrimSpace(i[infoKeyRS])
	if rs == "" || rs == "." {
		return ""
	}
	if !strings.HasPrefix(rs, "rs") {
		rs = "rs" + rs
	}
	return rs
}

// VariantRecord represents a single gene-scoped variant from a VCF data row.
// Records are immutable once parsed.
type VariantRecord struct {
	Chrom string // Chromosome name (e.g., "22", "chr22")
	Pos   int64  // 1-based genomic position
	ID    string // Original ID column (may hold multiple ;-separated ids)
	Ref   string // Reference allele
	Alt   string // Alternate allele
	Gene  Gene   // Supported pharmacogene from INFO GENE
	Star  string // Star allele tag from INFO STAR/HAPLOTYPE, "" if absent
	RSID  string // Resolved dbSNP rsID, "" if absent
	Info  Info   // Full INFO map, including unrecognized keys
}

// GeneVariants maps each supported gene to its parsed variant records,
// in file order. All supported genes are present as keys, possibly with
// empty slices.
type GeneVariants map[Gene][]*VariantRecord

// NewGeneVariants returns a GeneVariants with every supported gene present.
func NewGeneVariants() GeneVariants {
	gv := make(GeneVariants, len(SupportedGenes))
	for _, g := range SupportedGenes {
		gv[g] = nil
	}
	return gv
}

// GenesWithData returns the supported genes that have at least one variant,
// in the fixed SupportedGenes order.
func (gv GeneVariants) GenesWithData() []string {
	var genes []string
	for _, g := range SupportedGenes {
		if len(gv[g]) > 0 {
			genes = append(genes, string(g))
		}
	}
	return genes
}

// ExtractRSID resolves an rsID from the INFO map and the ID column.
// INFO RS wins; otherwise the first ;-separated ID token that starts
// with "rs" (case-insensitive) is used; otherwise "".
func ExtractRSID(idCol string, info Info) string {
	if rs := info.RS(); rs != "" {
		return rs
	}
	if idCol != "" && idCol != "." {
		for _, part := range strings.Split(idCol, ";") {
			if strings.HasPrefix(strings.ToLower(part), "rs") {
				return part
			}
		}
	}
	return ""
}
