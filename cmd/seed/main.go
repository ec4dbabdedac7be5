// Package main provides the seed command-line tool. It generates a
// realistic wide mortality CSV in the shape of the Kaggle "Annual Cause
// of Death Numbers" dataset, for demos and testing without the real
// dataset.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

type entity struct {
	name string
	code string
}

// causeProfile drives the synthetic series for one cause: a base rate
// per 100k at year 2000, a linear yearly trend, and a noise factor.
type causeProfile struct {
	name  string
	base  float64
	trend float64
	noise float64
}

var entities = []entity{
	{"Afghanistan", "AFG"}, {"Albania", "ALB"}, {"Algeria", "DZA"},
	{"Argentina", "ARG"}, {"Australia", "AUS"}, {"Austria", "AUT"},
	{"Bangladesh", "BGD"}, {"Belgium", "BEL"}, {"Brazil", "BRA"},
	{"Canada", "CAN"}, {"Chile", "CHL"}, {"China", "CHN"},
	{"Colombia", "COL"}, {"Democratic Republic of Congo", "COD"},
	{"Egypt", "EGY"}, {"Ethiopia", "ETH"}, {"France", "FRA"},
	{"Germany", "DEU"}, {"Ghana", "GHA"}, {"Greece", "GRC"},
	{"India", "IND"}, {"Indonesia", "IDN"}, {"Iran", "IRN"},
	{"Iraq", "IRQ"}, {"Ireland", "IRL"}, {"Israel", "ISR"},
	{"Italy", "ITA"}, {"Japan", "JPN"}, {"Kenya", "KEN"},
	{"Malaysia", "MYS"}, {"Mexico", "MEX"}, {"Morocco", "MAR"},
	{"Myanmar", "MMR"}, {"Netherlands", "NLD"}, {"New Zealand", "NZL"},
	{"Nigeria", "NGA"}, {"Norway", "NOR"}, {"Pakistan", "PAK"},
	{"Peru", "PER"}, {"Philippines", "PHL"}, {"Poland", "POL"},
	{"Portugal", "PRT"}, {"Romania", "ROU"}, {"Russia", "RUS"},
	{"Saudi Arabia", "SAU"}, {"South Africa", "ZAF"},
	{"South Korea", "KOR"}, {"Spain", "ESP"}, {"Sudan", "SDN"},
	{"Sweden", "SWE"}, {"Switzerland", "CHE"}, {"Tanzania", "TZA"},
	{"Thailand", "THA"}, {"Turkey", "TUR"}, {"Uganda", "UGA"},
	{"Ukraine", "UKR"}, {"United Arab Emirates", "ARE"},
	{"United Kingdom", "GBR"}, {"United States", "USA"},
	{"Vietnam", "VNM"}, {"World", "OWID_WRL"},
}

var causes = []causeProfile{
	{"Cardiovascular diseases", 250, -0.5, 0.1},
	{"Neoplasms", 150, 0.3, 0.08},
	{"Lower respiratory infections", 40, -1.5, 0.15},
	{"Chronic respiratory diseases", 45, 0.2, 0.1},
	{"Alzheimer's disease and other dementias", 25, 1.5, 0.1},
	{"Diabetes mellitus", 20, 0.8, 0.12},
	{"Chronic kidney disease", 15, 0.5, 0.1},
	{"Digestive diseases", 25, -0.2, 0.08},
	{"Cirrhosis and other chronic liver diseases", 15, 0.1, 0.1},
	{"Road injuries", 18, -0.3, 0.12},
	{"Self-harm", 12, 0.1, 0.15},
	{"Interpersonal violence", 8, -0.1, 0.2},
	{"HIV/AIDS", 15, -2.0, 0.25},
	{"Malaria", 20, -1.5, 0.3},
	{"Tuberculosis", 12, -1.0, 0.2},
	{"Neonatal disorders", 25, -1.2, 0.15},
	{"Nutritional deficiencies", 8, -0.8, 0.2},
	{"Meningitis", 5, -0.5, 0.15},
	{"Drowning", 4, -0.3, 0.12},
	{"Parkinson's disease", 8, 0.8, 0.1},
	{"Alcohol use disorders", 5, 0.2, 0.15},
	{"Drug use disorders", 4, 0.5, 0.2},
	{"Fire, heat, and hot substances", 2, -0.2, 0.15},
	{"Poisonings", 2, 0.1, 0.15},
	{"Conflict and terrorism", 3, 0.5, 0.5},
	{"Exposure to forces of nature", 0.5, 0.1, 0.8},
	{"Environmental heat and cold exposure", 1, 0.2, 0.3},
	{"Intestinal infectious diseases", 10, -1.0, 0.2},
	{"Maternal disorders", 5, -1.5, 0.2},
	{"Acute hepatitis", 3, -0.3, 0.15},
}

// populations holds rough population estimates in millions, used to
// scale rates into absolute counts.
var populations = map[string]float64{
	"China": 1400, "India": 1380, "United States": 330,
	"Indonesia": 270, "Pakistan": 220, "Brazil": 210, "Nigeria": 200,
	"Bangladesh": 165, "Russia": 145, "Mexico": 130, "Japan": 125,
	"Ethiopia": 115, "Philippines": 110, "Egypt": 100, "Vietnam": 97,
	"Democratic Republic of Congo": 90, "Germany": 83, "Turkey": 84,
	"Iran": 84, "Thailand": 70, "United Kingdom": 67, "France": 67,
	"Italy": 60, "South Africa": 59, "Tanzania": 59, "Myanmar": 54,
	"Kenya": 53, "South Korea": 52, "Colombia": 50, "Spain": 47,
	"Uganda": 45, "Argentina": 45, "Algeria": 44, "Sudan": 43,
	"Ukraine": 44, "Iraq": 40, "Poland": 38, "Canada": 38,
	"Morocco": 37, "Saudi Arabia": 34, "Peru": 33, "Malaysia": 32,
	"Ghana": 31, "Australia": 25, "Chile": 19, "Netherlands": 17,
	"Belgium": 11.5, "Greece": 10.5, "Portugal": 10.3, "Sweden": 10.3,
	"United Arab Emirates": 9.9, "Austria": 9, "Switzerland": 8.6,
	"Israel": 9.2, "Ireland": 5, "Norway": 5.4, "New Zealand": 5,
	"Albania": 2.9, "Afghanistan": 38, "Romania": 19, "World": 7800,
}

var africanCountries = map[string]bool{
	"Nigeria": true, "Ethiopia": true, "Democratic Republic of Congo": true,
	"Tanzania": true, "Kenya": true, "Uganda": true, "Ghana": true,
	"South Africa": true, "Sudan": true,
}

var developedCountries = map[string]bool{
	"United States": true, "United Kingdom": true, "Germany": true,
	"France": true, "Japan": true, "Canada": true, "Australia": true,
	"Italy": true, "Spain": true, "Netherlands": true, "Sweden": true,
	"Norway": true, "Switzerland": true, "Austria": true,
	"Belgium": true, "Ireland": true, "New Zealand": true,
}

var conflictZones = map[string]bool{
	"Afghanistan": true, "Iraq": true, "Sudan": true,
	"Democratic Republic of Congo": true,
}

var infectiousCauses = map[string]bool{
	"Malaria": true, "HIV/AIDS": true, "Tuberculosis": true,
	"Lower respiratory infections": true,
	"Intestinal infectious diseases": true, "Meningitis": true,
}

var ncdCauses = map[string]bool{
	"Cardiovascular diseases": true, "Neoplasms": true,
	"Alzheimer's disease and other dementias": true,
	"Parkinson's disease": true, "Diabetes mellitus": true,
}

func main() {
	output := flag.String("output", "data/raw/annual-number-of-deaths-by-cause.csv", "Output CSV path")
	seed := flag.Int64("seed", 42, "Random seed (same seed, same dataset)")
	startYear := flag.Int("start", 1990, "First year to generate")
	endYear := flag.Int("end", 2019, "Last year to generate")

	flag.Parse()

	if *startYear > *endYear {
		log.Fatalf("❌ Invalid year range: %d-%d\n", *startYear, *endYear)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("❌ Error creating directory: %v\n", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("❌ Error creating file: %v\n", err)
	}
	defer f.Close()

	rowCount, err := generate(csv.NewWriter(f), rand.New(rand.NewSource(*seed)), *startYear, *endYear)
	if err != nil {
		log.Fatalf("❌ Error writing dataset: %v\n", err)
	}

	fmt.Printf("✅ Generated %d rows (%d entities x %d causes, %d-%d)\n",
		rowCount, len(entities), len(causes), *startYear, *endYear)
	fmt.Printf("✅ Saved to: %s\n", *output)
}

// generate writes the header and every (entity, year) row. The output
// is a pure function of the rng seed and year range.
func generate(cw *csv.Writer, rng *rand.Rand, startYear, endYear int) (int, error) {
	header := []string{"Entity", "Code", "Year"}
	for _, c := range causes {
		header = append(header, fmt.Sprintf("Deaths - %s - Sex: Both - Age: All Ages (Number)", c.name))
	}

	if err := cw.Write(header); err != nil {
		return 0, err
	}

	rowCount := 0

	for _, ent := range entities {
		for year := startYear; year <= endYear; year++ {
			row := make([]string, 0, len(header))
			row = append(row, ent.name, ent.code, strconv.Itoa(year))

			for _, c := range causes {
				row = append(row, strconv.Itoa(generateDeaths(rng, ent.name, c, year)))
			}

			if err := cw.Write(row); err != nil {
				return 0, err
			}

			rowCount++
		}
	}

	cw.Flush()

	return rowCount, cw.Error()
}

// generateDeaths produces a death count for one (entity, cause, year)
// cell: the base rate trends linearly from year 2000, gets a regional
// modifier, scales by population, and picks up multiplicative noise.
func generateDeaths(rng *rand.Rand, entityName string, c causeProfile, year int) int {
	pop, ok := populations[entityName]
	if !ok {
		pop = 20
	}

	rate := c.base + c.trend*float64(year-2000)
	if rate < 0.1 {
		rate = 0.1
	}

	rate *= regionModifier(entityName, c.name)

	baseDeaths := rate * pop * 10

	noise := 1 + rng.NormFloat64()*c.noise
	if noise < 0.5 {
		noise = 0.5
	}

	deaths := int(baseDeaths * noise)
	if deaths < 0 {
		deaths = 0
	}

	return deaths
}

// regionModifier skews cause rates by region so the dataset shows the
// real-world pattern: infectious burden in Africa, NCD burden in
// developed countries, conflict deaths in conflict zones.
func regionModifier(entityName, causeName string) float64 {
	modifier := 1.0

	if africanCountries[entityName] {
		if infectiousCauses[causeName] {
			modifier *= 3.0
		}

		if ncdCauses[causeName] {
			modifier *= 0.6
		}

		if causeName == "Malaria" {
			modifier *= 5.0
		}
	}

	if developedCountries[entityName] {
		if infectiousCauses[causeName] {
			modifier *= 0.3
		}

		if ncdCauses[causeName] {
			modifier *= 1.3
		}

		if causeName == "Malaria" {
			modifier *= 0.01
		}
	}

	if conflictZones[entityName] {
		if causeName == "Conflict and terrorism" {
			modifier *= 10.0
		}

		if causeName == "Interpersonal violence" {
			modifier *= 2.0
		}
	}

	return modifier
}
