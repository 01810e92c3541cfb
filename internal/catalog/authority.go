package catalog

// authorityByPrefix maps ANZSCO unit-group prefixes to the assessing
// authority for that occupation family. Used as the last resort when
// neither the profile nor the catalog carries an explicit authority.
var authorityByPrefix = map[string]string{
	"1351": "ACS", // ICT managers
	"2211": "CPA Australia",
	"2212": "CAANZ",
	"2247": "VETASSESS",
	"2321": "AACA", // architects
	"2331": "Engineers Australia",
	"2332": "Engineers Australia",
	"2333": "Engineers Australia",
	"2334": "Engineers Australia",
	"2335": "Engineers Australia",
	"2339": "Engineers Australia",
	"2411": "AITSL", // early childhood teachers
	"2414": "AITSL",
	"2544": "ANMAC", // registered nurses
	"2611": "ACS",
	"2613": "ACS",
	"2621": "ACS",
	"2631": "ACS",
	"2633": "ACS",
	"3122": "VETASSESS",
	"3513": "TRA", // chefs
}

// AuthorityForCode resolves the assessing authority for a six-digit
// classification code by its four-digit unit-group prefix. Returns the
// empty string when the family is not in the table.
func AuthorityForCode(anzscoCode string) string {
	if len(anzscoCode) < 4 {
		return ""
	}
	return authorityByPrefix[anzscoCode[:4]]
}
