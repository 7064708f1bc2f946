package dns_resolver

// typeA is the DNS type code of an IPv4 address record.
const typeA = 1

// dohResponse defines the JSON structure returned by a DNS-over-HTTPS
// resolver such as dns.google/resolve.
type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

type dohAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	TTL  int    `json:"TTL"`
	Data string `json:"data"`
}
