package dto

const (
	DatasourceTushare   = "tushare"
	DatasourceEastmoney = "eastmoney"
)

// Prefiks kode yang selalu dibuang dari universe (pasar BSE dan saham B).
var AlwaysExcludedPrefixes = []string{"8", "4", "9"}

// Prefiks tambahan ketika papan ChiNext/STAR ikut dikecualikan.
var GEMPrefixes = []string{"300", "301", "688"}
