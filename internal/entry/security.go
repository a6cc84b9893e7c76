package entry

// transitionalPairs lists security classifiers that interoperate in
// transition mode: a saved config of one side can use a network of the
// other. WPA2/WPA3 (PSK/SAE) and open/enhanced-open are the two pairs the
// 802.11 transition modes define. Any other cross-classifier match must be
// added here explicitly; no symmetry is assumed beyond these.
var transitionalPairs = map[[2]SecurityType]bool{
	{SecurityPSK, SecuritySAE}:  true,
	{SecuritySAE, SecurityPSK}:  true,
	{SecurityNone, SecurityOWE}: true,
	{SecurityOWE, SecurityNone}: true,
}

// configMatches reports whether a saved config's security classification can
// serve an identity with the given classification. Exact matches always
// qualify; transitional pairs qualify for saved-config lookup only.
func configMatches(config, identity SecurityType) bool {
	if config == identity {
		return true
	}
	return transitionalPairs[[2]SecurityType{config, identity}]
}

// scanAdvertises reports whether an observation's capability set includes
// the given security type. Scan matching is exact membership: an AP
// advertising only PSK does not corroborate an SAE entry even though the
// two are a transitional pair.
func scanAdvertises(capabilities []SecurityType, want SecurityType) bool {
	for _, c := range capabilities {
		if c == want {
			return true
		}
	}
	return false
}
