package model

import "fmt"

// Topic is a canonical news topic key.
type Topic string

const (
	TopicBlockchain           Topic = "blockchain"
	TopicEarnings             Topic = "earnings"
	TopicIPO                  Topic = "ipo"
	TopicMergersAcquisitions  Topic = "mergers_and_acquisitions"
	TopicFinancialMarkets     Topic = "financial_markets"
	TopicEconomyFiscal        Topic = "economy_fiscal"
	TopicEconomyMonetary      Topic = "economy_monetary"
	TopicEconomyMacro         Topic = "economy_macro"
	TopicEnergyTransportation Topic = "energy_transportation"
	TopicFinance              Topic = "finance"
	TopicLifeSciences         Topic = "life_sciences"
	TopicManufacturing        Topic = "manufacturing"
	TopicRealEstate           Topic = "real_estate"
	TopicRetailWholesale      Topic = "retail_wholesale"
	TopicTechnology           Topic = "technology"
)

// Topics lists every canonical topic in column order.
var Topics = []Topic{
	TopicBlockchain,
	TopicEarnings,
	TopicIPO,
	TopicMergersAcquisitions,
	TopicFinancialMarkets,
	TopicEconomyFiscal,
	TopicEconomyMonetary,
	TopicEconomyMacro,
	TopicEnergyTransportation,
	TopicFinance,
	TopicLifeSciences,
	TopicManufacturing,
	TopicRealEstate,
	TopicRetailWholesale,
	TopicTechnology,
}

// ParseTopic validates s against the canonical topic keys.
func ParseTopic(s string) (Topic, error) {
	for _, t := range Topics {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported topic %q", s)
}
