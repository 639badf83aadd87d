package vcf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validVCF = `##fileformat=VCFv4.2
##source=PharmaGuardTest
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE001
22	42130692	rs3892097	G	A	.	PASS	GENE=CYP2D6;STAR=*4;RS=3892097
10	94781859	rs4244285	G	A	.	PASS	GENE=CYP2C19;STAR=*2
12	21178615	.	T	C	.	PASS	GENE=SLCO1B1;HAPLOTYPE=*5;RS=4149056
1	97883329	rs67376798	T	A	.	PASS	GENE=DPYD;STAR=*13
7	117559590	rs0000001	G	T	.	PASS	GENE=CFTR;STAR=*9
`

func TestParser_ValidFile(t *testing.T) {
	p := NewParser()

	gv, err := p.Parse([]byte(validVCF))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(gv) != len(SupportedGenes) {
		t.Errorf("Expected %d gene keys, got %d", len(SupportedGenes), len(gv))
	}

	if got := len(gv[GeneCYP2D6]); got != 1 {
		t.Fatalf("Expected 1 CYP2D6 variant, got %d", got)
	}

	v := gv[GeneCYP2D6][0]
	if v.Chrom != "22" {
		t.Errorf("Expected chrom 22, got %s", v.Chrom)
	}
	if v.Pos != 42130692 {
		t.Errorf("Expected pos 42130692, got %d", v.Pos)
	}
	if v.Star != "*4" {
		t.Errorf("Expected star *4, got %s", v.Star)
	}
	if v.RSID != "rs3892097" {
		t.Errorf("Expected rsid rs3892097, got %s", v.RSID)
	}

	// HAPLOTYPE fallback and RS prefixing
	slco := gv[GeneSLCO1B1]
	if len(slco) != 1 {
		t.Fatalf("Expected 1 SLCO1B1 variant, got %d", len(slco))
	}
	if slco[0].Star != "*5" {
		t.Errorf("Expected HAPLOTYPE fallback *5, got %s", slco[0].Star)
	}
	if slco[0].RSID != "rs4149056" {
		t.Errorf("Expected rs-prefixed rsid rs4149056, got %s", slco[0].RSID)
	}
}

func TestParser_UnsupportedGeneDropped(t *testing.T) {
	p := NewParser()

	gv, err := p.Parse([]byte(validVCF))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for gene, variants := range gv {
		if !IsSupported(gene) {
			t.Errorf("Unsupported gene %s retained with %d variants", gene, len(variants))
		}
	}
}

func TestParser_MalformedRowsSkipped(t *testing.T) {
	input := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"22\t42130692\trs3892097\tG\tA\t.\tPASS\tGENE=CYP2D6;STAR=*4\n" +
		"22\tnot_a_number\trs1\tG\tA\t.\tPASS\tGENE=CYP2D6;STAR=*10\n" +
		"22\t100\ttoo\tfew\tcolumns\n" +
		"\n" +
		"22\t42126611\trs16947\tC\tT\t.\tPASS\tGENE=CYP2D6;STAR=*2\n"

	p := NewParser()
	gv, err := p.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Malformed rows must not fail the file: %v", err)
	}

	if got := len(gv[GeneCYP2D6]); got != 2 {
		t.Errorf("Expected 2 retained CYP2D6 variants, got %d", got)
	}
}

func TestValidateSignature(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty file",
		},
		{
			name: "missing fileformat",
			input: "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
				"22\t100\trs1\tG\tA\t.\tPASS\tGENE=CYP2D6;STAR=*4\n",
			wantErr: "missing ##fileformat=VCF header",
		},
		{
			name: "blank line before chrom header",
			input: "##fileformat=VCFv4.2\n" +
				"\n" +
				"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n",
			wantErr: "missing #CHROM header line",
		},
		{
			name:    "missing chrom header",
			input:   "##fileformat=VCFv4.2\n22\t100\trs1\tG\tA\t.\tPASS\tGENE=CYP2D6\n",
			wantErr: "missing #CHROM header line",
		},
		{
			name: "wrong column order",
			input: "##fileformat=VCFv4.2\n" +
				"POS\t#CHROM\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n",
			wantErr: "missing #CHROM header line",
		},
		{
			name: "shuffled chrom columns",
			input: "##fileformat=VCFv4.2\n" +
				"#CHROM\tID\tPOS\tREF\tALT\tQUAL\tFILTER\tINFO\n",
			wantErr: "invalid #CHROM header structure",
		},
		{
			name:    "valid minimal header",
			input:   "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n",
			wantErr: "",
		},
		{
			name:    "extra sample columns allowed",
			input:   "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878\n",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignature([]byte(tt.input))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid signature, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValidationError, got %T (%v)", err, err)
			}
			if !strings.Contains(ve.Reason, tt.wantErr) {
				t.Errorf("Reason %q does not contain %q", ve.Reason, tt.wantErr)
			}
		})
	}
}

func TestParser_RejectsBeforeParsingRows(t *testing.T) {
	// Well-formed data rows must not rescue a file with no fileformat line.
	input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"22\t42130692\trs3892097\tG\tA\t.\tPASS\tGENE=CYP2D6;STAR=*4\n"

	p := NewParser()
	gv, err := p.Parse([]byte(input))
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if gv != nil {
		t.Error("Expected nil gene map on validation failure")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("Expected *ValidationError, got %T", err)
	}
}

func TestParser_BlankLineInHeaderRejected(t *testing.T) {
	// A blank line between the meta lines and #CHROM ends the header
	// region, so the #CHROM line is never reached.
	input := "##fileformat=VCFv4.2\n" +
		"\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"22\t42130692\trs3892097\tG\tA\t.\tPASS\tGENE=CYP2D6;STAR=*4\n"

	for _, b := range []Backend{&LineBackend{}, &StreamBackend{}} {
		p := NewParserWithBackend(b)
		gv, err := p.Parse([]byte(input))
		if err == nil {
			t.Fatalf("Backend %s accepted a blank line inside the header region", b.Name())
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Backend %s: expected *ValidationError, got %T (%v)", b.Name(), err, err)
		}
		if gv != nil {
			t.Errorf("Backend %s: expected nil gene map on rejection", b.Name())
		}
	}
}

func TestParser_FixtureFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "patient.vcf"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}

	p := NewParser()
	gv, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Every supported gene in the fixture has data; CFTR is dropped.
	for _, gene := range SupportedGenes {
		if len(gv[gene]) == 0 {
			t.Errorf("Expected variants for %s", gene)
		}
	}
	if got := len(gv[GeneCYP2D6]); got != 2 {
		t.Errorf("Expected 2 CYP2D6 variants, got %d", got)
	}

	if got := ExtractPatientID(data); got != "PATIENT_NA12878" {
		t.Errorf("ExtractPatientID = %q, want PATIENT_NA12878", got)
	}
}

func TestBackendEquivalence(t *testing.T) {
	backends := []Backend{&LineBackend{}, &StreamBackend{}}

	var results []GeneVariants
	for _, b := range backends {
		p := NewParserWithBackend(b)
		gv, err := p.Parse([]byte(validVCF))
		if err != nil {
			t.Fatalf("Backend %s failed: %v", b.Name(), err)
		}
		results = append(results, gv)
	}

	for _, gene := range SupportedGenes {
		a, b := results[0][gene], results[1][gene]
		if len(a) != len(b) {
			t.Fatalf("Gene %s: backend outputs differ in length: %d vs %d", gene, len(a), len(b))
		}
		for i := range a {
			if a[i].Chrom != b[i].Chrom || a[i].Pos != b[i].Pos || a[i].ID != b[i].ID ||
				a[i].Ref != b[i].Ref || a[i].Alt != b[i].Alt || a[i].Gene != b[i].Gene ||
				a[i].Star != b[i].Star || a[i].RSID != b[i].RSID {
				t.Errorf("Gene %s variant %d differs between backends: %+v vs %+v", gene, i, a[i], b[i])
			}
		}
	}
}

func TestExtractPatientID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sample column present",
			input: validVCF,
			want:  "PATIENT_SAMPLE001",
		},
		{
			name:  "no sample column",
			input: "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n",
			want:  PatientUnknown,
		},
		{
			name:  "blank sample column",
			input: "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t \n",
			want:  PatientUnknown,
		},
		{
			name:  "lowercase sample upper-cased",
			input: "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tna12878\n",
			want:  "PATIENT_NA12878",
		},
		{
			name:  "not a vcf at all",
			input: "hello world",
			want:  PatientUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPatientID([]byte(tt.input)); got != tt.want {
				t.Errorf("ExtractPatientID = %q, want %q", got, tt.want)
			}
		})
	}
}
