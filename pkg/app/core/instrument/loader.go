package instrument

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML layout:
//
//	instruments:
//	  - symbol: TCS
//	    exchange: NSE
//	    instrumentType: Equity
//	    lastTradedPrice: "3204.00"
type catalogFile struct {
	Instruments []struct {
		Symbol          string `yaml:"symbol"`
		Exchange        string `yaml:"exchange"`
		InstrumentType  string `yaml:"instrumentType"`
		LastTradedPrice string `yaml:"lastTradedPrice"`
	} `yaml:"instruments"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a YAML catalog. Prices are kept as decimal text so that
// values like 1507.60 never pass through a float.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(file.Instruments) == 0 {
		return nil, fmt.Errorf("no instruments defined")
	}

	c := NewCatalog()
	for i, raw := range file.Instruments {
		price, err := decimal.NewFromString(raw.LastTradedPrice)
		if err != nil {
			return nil, fmt.Errorf("instrument #%d (%s): invalid lastTradedPrice %q: %w", i, raw.Symbol, raw.LastTradedPrice, err)
		}
		if err := c.Register(Instrument{
			Symbol:          raw.Symbol,
			Exchange:        raw.Exchange,
			InstrumentType:  raw.InstrumentType,
			LastTradedPrice: price,
		}); err != nil {
			return nil, err
		}
	}
	return c, nil
}
