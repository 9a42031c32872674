package domain

// FeatureKey identifies a billable generation feature. The API uses the
// camelCase key; the usage ledger stores one counter column per feature.
type FeatureKey string

const (
	FeatureMercadoPublicoAlvo FeatureKey = "mercadoPublicoAlvo"
	FeaturePalavrasChaves     FeatureKey = "palavrasChaves"
	FeatureFunilDeBusca       FeatureKey = "funilDeBusca"
	FeatureTextoSeoLp         FeatureKey = "textoSeoLp"
	FeatureTextoSeoProduto    FeatureKey = "textoSeoProduto"
	FeatureTextoSeoBlog       FeatureKey = "textoSeoBlog"
	FeaturePautasBlog         FeatureKey = "pautasBlog"
	FeatureMetaTags           FeatureKey = "metaTags"
)

// AllFeatures lists every feature key, in ledger column order.
var AllFeatures = []FeatureKey{
	FeatureMercadoPublicoAlvo,
	FeaturePalavrasChaves,
	FeatureFunilDeBusca,
	FeatureTextoSeoLp,
	FeatureTextoSeoProduto,
	FeatureTextoSeoBlog,
	FeaturePautasBlog,
	FeatureMetaTags,
}

// featureColumns maps API keys to user_usage counter columns.
var featureColumns = map[FeatureKey]string{
	FeatureMercadoPublicoAlvo: "mercado_publico_alvo",
	FeaturePalavrasChaves:     "palavras_chaves",
	FeatureFunilDeBusca:       "funil_de_busca",
	FeatureTextoSeoLp:         "texto_seo_lp",
	FeatureTextoSeoProduto:    "texto_seo_produto",
	FeatureTextoSeoBlog:       "texto_seo_blog",
	FeaturePautasBlog:         "pautas_blog",
	FeatureMetaTags:           "meta_tags",
}

// Valid reports whether the key names a known feature.
func (f FeatureKey) Valid() bool {
	_, ok := featureColumns[f]
	return ok
}

// Column returns the feature's counter column in the user_usage table.
func (f FeatureKey) Column() string {
	return featureColumns[f]
}

// HistoryTable returns the per-feature table holding generation results.
func (f FeatureKey) HistoryTable() string {
	return featureColumns[f] + "_history"
}

// ParseFeatureKey validates a raw API path segment.
func ParseFeatureKey(raw string) (FeatureKey, error) {
	feature := FeatureKey(raw)
	if !feature.Valid() {
		return "", ErrUnknownFeature
	}
	return feature, nil
}
