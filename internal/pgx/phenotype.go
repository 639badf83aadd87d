// Package pgx implements the CPIC-aligned pharmacogenomic rule engine.
// Risk decisions are deterministic table lookups; no inference beyond
// the curated diplotype and rule tables happens here.
package pgx

import (
	"strings"

	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// Phenotype is a metabolizer phenotype classification.
type Phenotype string

// The closed phenotype set. There is no ordering between phenotypes,
// only identity.
const (
	PhenotypePM      Phenotype = "PM"  // Poor Metabolizer
	PhenotypeIM      Phenotype = "IM"  // Intermediate Metabolizer
	PhenotypeNM      Phenotype = "NM"  // Normal Metabolizer
	PhenotypeRM      Phenotype = "RM"  // Rapid Metabolizer
	PhenotypeURM     Phenotype = "URM" // Ultrarapid Metabolizer
	PhenotypeUnknown Phenotype = "Unknown"
)

// Per-gene diplotype → phenotype tables (CPIC 2023 guidelines).
// Hand-curated; lookups only, never computed.

var cyp2d6Phenotypes = map[string]Phenotype{
	"*1/*1":   PhenotypeNM,
	"*1/*2":   PhenotypeNM,
	"*2/*2":   PhenotypeNM,
	"*1/*4":   PhenotypeIM,
	"*1/*5":   PhenotypeIM,
	"*1/*41":  PhenotypeIM,
	"*2/*41":  PhenotypeIM,
	"*4/*41":  PhenotypeIM,
	"*4/*4":   PhenotypePM,
	"*4/*5":   PhenotypePM,
	"*5/*5":   PhenotypePM,
	"*3/*4":   PhenotypePM,
	"*3/*5":   PhenotypePM,
	"*1/*1xN": PhenotypeURM, // gene duplication
	"*2/*2xN": PhenotypeURM,
	"*1/*2xN": PhenotypeURM,
}

var cyp2c19Phenotypes = map[string]Phenotype{
	"*1/*1":   PhenotypeNM,
	"*1/*2":   PhenotypeIM,
	"*1/*3":   PhenotypeIM,
	"*2/*17":  PhenotypeIM,
	"*2/*2":   PhenotypePM,
	"*2/*3":   PhenotypePM,
	"*3/*3":   PhenotypePM,
	"*1/*17":  PhenotypeRM,
	"*17/*17": PhenotypeRM,
}

var cyp2c9Phenotypes = map[string]Phenotype{
	"*1/*1": PhenotypeNM,
	"*1/*2": PhenotypeIM,
	"*1/*3": PhenotypeIM,
	"*2/*2": PhenotypeIM,
	"*2/*3": PhenotypeIM,
	"*3/*3": PhenotypePM,
}

// SLCO1B1 classification is transporter-function based.
var slco1b1Phenotypes = map[string]Phenotype{
	"*1/*1":   PhenotypeNM,
	"*1/*1a":  PhenotypeNM,
	"*1/*1b":  PhenotypeNM,
	"*1/*5":   PhenotypeIM,
	"*1/*15":  PhenotypeIM,
	"*1a/*5":  PhenotypeIM,
	"*5/*5":   PhenotypePM,
	"*15/*15": PhenotypePM,
	"*5/*15":  PhenotypePM,
}

var tpmtPhenotypes = map[string]Phenotype{
	"*1/*1":   PhenotypeNM,
	"*1/*2":   PhenotypeIM,
	"*1/*3A":  PhenotypeIM,
	"*1/*3B":  PhenotypeIM,
	"*1/*3C":  PhenotypeIM,
	"*2/*3A":  PhenotypePM,
	"*3A/*3A": PhenotypePM,
	"*3A/*3C": PhenotypePM,
	"*3B/*3C": PhenotypePM,
}

var dpydPhenotypes = map[string]Phenotype{
	"*1/*1":   PhenotypeNM,
	"*1/*2A":  PhenotypeIM,
	"*1/*13":  PhenotypeIM,
	"*2A/*2A": PhenotypePM,
	"*13/*13": PhenotypePM,
	"*2A/*13": PhenotypePM,
}

// genePhenotypes maps each supported gene to its diplotype table.
var genePhenotypes = map[vcf.Gene]map[string]Phenotype{
	vcf.GeneCYP2D6:  cyp2d6Phenotypes,
	vcf.GeneCYP2C19: cyp2c19Phenotypes,
	vcf.GeneCYP2C9:  cyp2c9Phenotypes,
	vcf.GeneSLCO1B1: slco1b1Phenotypes,
	vcf.GeneTPMT:    tpmtPhenotypes,
	vcf.GeneDPYD:    dpydPhenotypes,
}

// ResolvePhenotype looks up the metabolizer phenotype for a gene and
// diplotype. Allele order is not clinically meaningful, so the swapped
// orientation is tried before falling back to an upper-cased match.
// Anything unresolved is PhenotypeUnknown.
func ResolvePhenotype(gene vcf.Gene, diplotype string) Phenotype {
	table := genePhenotypes[gene]
	if table == nil {
		return PhenotypeUnknown
	}

	if p, ok := table[diplotype]; ok {
		return p
	}

	if a, b, found := strings.Cut(diplotype, "/"); found {
		if p, ok := table[b+"/"+a]; ok {
			return p
		}
	}

	if p, ok := table[strings.ToUpper(diplotype)]; ok {
		return p
	}

	return PhenotypeUnknown
}
