package domain

// PlanID identifies a subscription plan.
type PlanID string

const (
	PlanFree      PlanID = "free"
	PlanSolo      PlanID = "solo"
	PlanDiscovery PlanID = "discovery"
	PlanEscala    PlanID = "escala"
)

// UnlimitedUsage is the ceiling sentinel for plans without a limit.
const UnlimitedUsage = -1

// Plan is a catalog entry: the plan's identity and its per-feature
// monthly ceilings.
type Plan struct {
	ID       PlanID             `json:"id"`
	Name     string             `json:"name"`
	PriceBRL int                `json:"price_brl"`
	Limits   map[FeatureKey]int `json:"limits"`
}

// planCatalog is the single compiled-in catalog. Quota checks, the admin
// endpoints and the payment webhook all resolve plans here, so a ceiling
// change lands everywhere at once.
var planCatalog = map[PlanID]Plan{
	PlanFree: {
		ID:   PlanFree,
		Name: "Gratuito",
		Limits: map[FeatureKey]int{
			FeatureMercadoPublicoAlvo: 1,
			FeaturePalavrasChaves:     3,
			FeatureFunilDeBusca:       1,
			FeatureTextoSeoLp:         1,
			FeatureTextoSeoProduto:    1,
			FeatureTextoSeoBlog:       1,
			FeaturePautasBlog:         1,
			FeatureMetaTags:           2,
		},
	},
	PlanSolo: {
		ID:       PlanSolo,
		Name:     "Solo",
		PriceBRL: 97,
		Limits: map[FeatureKey]int{
			FeatureMercadoPublicoAlvo: 10,
			FeaturePalavrasChaves:     20,
			FeatureFunilDeBusca:       10,
			FeatureTextoSeoLp:         10,
			FeatureTextoSeoProduto:    10,
			FeatureTextoSeoBlog:       10,
			FeaturePautasBlog:         10,
			FeatureMetaTags:           20,
		},
	},
	PlanDiscovery: {
		ID:       PlanDiscovery,
		Name:     "Discovery",
		PriceBRL: 197,
		Limits: map[FeatureKey]int{
			FeatureMercadoPublicoAlvo: 30,
			FeaturePalavrasChaves:     60,
			FeatureFunilDeBusca:       30,
			FeatureTextoSeoLp:         30,
			FeatureTextoSeoProduto:    30,
			FeatureTextoSeoBlog:       30,
			FeaturePautasBlog:         30,
			FeatureMetaTags:           60,
		},
	},
	PlanEscala: {
		ID:       PlanEscala,
		Name:     "Escala",
		PriceBRL: 297,
		Limits: map[FeatureKey]int{
			FeatureMercadoPublicoAlvo: UnlimitedUsage,
			FeaturePalavrasChaves:     UnlimitedUsage,
			FeatureFunilDeBusca:       UnlimitedUsage,
			FeatureTextoSeoLp:         UnlimitedUsage,
			FeatureTextoSeoProduto:    UnlimitedUsage,
			FeatureTextoSeoBlog:       UnlimitedUsage,
			FeaturePautasBlog:         UnlimitedUsage,
			FeatureMetaTags:           UnlimitedUsage,
		},
	},
}

// gatewayProducts maps payment gateway product codes to plans.
var gatewayProducts = map[string]PlanID{
	"mkranker-solo":      PlanSolo,
	"mkranker-discovery": PlanDiscovery,
	"mkranker-escala":    PlanEscala,
}

// PlanByID looks a plan up in the catalog.
func PlanByID(id PlanID) (Plan, error) {
	plan, ok := planCatalog[id]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return plan, nil
}

// LimitFor returns the plan's ceiling for a feature.
func (p Plan) LimitFor(feature FeatureKey) int {
	return p.Limits[feature]
}

// IsUnlimited reports whether a ceiling is the unlimited sentinel.
func IsUnlimited(ceiling int) bool {
	return ceiling == UnlimitedUsage
}

// PlanByProductCode resolves a payment gateway product code to a plan.
func PlanByProductCode(code string) (PlanID, error) {
	planID, ok := gatewayProducts[code]
	if !ok {
		return "", ErrUnknownPlan
	}
	return planID, nil
}
