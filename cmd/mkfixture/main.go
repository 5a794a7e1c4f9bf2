// mkfixture writes a synthetic branch transaction fixture for tests and
// local dashboard runs: N rows across 3 branches and 2 months, with one
// exact duplicate pair on the dedup key.
// Usage: go run ./cmd/mkfixture --out testdata/transactions-small.csv --rows 100
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	goparquet "github.com/parquet-go/parquet-go"
)

var (
	branches = []string{"สาขาสีลม", "สาขาอารีย์", "สาขาลาดพร้าว"}
	months   = []string{"2025-01", "2025-02"}
	products = []string{"Vitamin C 1000mg", "Physical Therapy", "Blood Test Panel", "Flu Vaccine", "Skin Treatment", "Consultation"}
	diseases = []string{"เบาหวาน", "ความดันโลหิตสูง", "ไข้หวัด", "ภูมิแพ้", "ปวดหลัง", "Migraine"}
	genders  = []string{"ชาย", "หญิง", "M", "F", "W", "?"}
	payers   = []string{"ประกันสังคม", "AIA", "Self-pay", "Allianz"}
	payments = []string{"เงินสด", "บัตรเครดิต", "โอน"}
	hospital = []string{"รพ.กรุงเทพ", "รพ.ศิริราช", ""}
)

type fixtureRow struct {
	Branch        string  `parquet:"branch"`
	Date          string  `parquet:"date"`
	DocNo         string  `parquet:"doc_no"`
	Description   string  `parquet:"description"`
	LineTotal     float64 `parquet:"line_total"`
	AvgCost       float64 `parquet:"avg_cost"`
	Quantity      float64 `parquet:"quantity"`
	Age           float64 `parquet:"age"`
	Gender        string  `parquet:"gender"`
	DiseaseGroup  string  `parquet:"disease_group"`
	Payer         string  `parquet:"payer"`
	PaymentMethod string  `parquet:"payment_method"`
	Hospital      string  `parquet:"hospital"`
}

func main() {
	out := flag.String("out", "testdata/transactions-small.csv", "output file (.csv or .parquet)")
	rows := flag.Int("rows", 100, "total rows including the duplicate pair")
	seed := flag.Int64("seed", 7, "rng seed")
	asParquet := flag.Bool("parquet", false, "write parquet instead of csv")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	data := make([]fixtureRow, 0, *rows)

	for i := 0; i < *rows-1; i++ {
		branch := branches[i%len(branches)]
		month := months[(i/len(branches))%len(months)]
		day := 1 + rng.Intn(28)
		r := fixtureRow{
			Branch:        branch,
			Date:          fmt.Sprintf("%s-%02d", month, day),
			DocNo:         fmt.Sprintf("INV-%04d", i+1),
			Description:   products[rng.Intn(len(products))],
			LineTotal:     float64(200 + rng.Intn(3000)),
			AvgCost:       float64(50 + rng.Intn(500)),
			Quantity:      float64(1 + rng.Intn(3)),
			Age:           float64(5 + rng.Intn(80)),
			Gender:        genders[rng.Intn(len(genders))],
			DiseaseGroup:  diseases[rng.Intn(len(diseases))],
			Payer:         payers[rng.Intn(len(payers))],
			PaymentMethod: payments[rng.Intn(len(payments))],
			Hospital:      hospital[rng.Intn(len(hospital))],
		}
		data = append(data, r)
	}

	// One exact duplicate pair on branch/date/doc_no/description/line_total.
	data = append(data, data[0])

	var err error
	if *asParquet {
		err = writeParquet(*out, data)
	} else {
		err = writeCSV(*out, data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", len(data), *out)
}

func writeCSV(path string, data []fixtureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"branch", "date", "doc_no", "description", "line_total", "avg_cost",
		"quantity", "age", "gender", "disease_group", "payer", "payment_method", "hospital",
	}); err != nil {
		return err
	}
	for _, r := range data {
		rec := []string{
			r.Branch, r.Date, r.DocNo, r.Description,
			strconv.FormatFloat(r.LineTotal, 'f', 2, 64),
			strconv.FormatFloat(r.AvgCost, 'f', 2, 64),
			strconv.FormatFloat(r.Quantity, 'f', 0, 64),
			strconv.FormatFloat(r.Age, 'f', 0, 64),
			r.Gender, r.DiseaseGroup, r.Payer, r.PaymentMethod, r.Hospital,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeParquet(path string, data []fixtureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := goparquet.NewGenericWriter[fixtureRow](f)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
