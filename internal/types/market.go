package types

// MarketContext carries inputs to scoring and display only; it must
// never influence invariant math (swap output, price impact, fees).
type MarketContext struct {
	GasPriceGwei uint64
	EthPriceUSD  float64
	BlockNumber  uint64
}

// DefaultMarketContext is a 30 gwei gas price and a placeholder
// ETH/USD price pending real oracle integration.
func DefaultMarketContext() MarketContext {
	return MarketContext{
		GasPriceGwei: 30,
		EthPriceUSD:  1800.0, // TODO: wire a real price oracle once one is in scope
		BlockNumber:  0,
	}
}
