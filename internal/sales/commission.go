package sales

// defaultCommissionPercent applies when a sale was stored with a
// non-positive rate.
const defaultCommissionPercent = 10

// Commission computes the seller's cut of one sale:
// sales with no attributed employee pay nothing, unprofitable sales pay
// nothing, and otherwise the employee earns their percentage of the net
// profit.
func Commission(s Sale) float64 {
	if s.EmployeeID == nil {
		return 0
	}
	netProfit := s.NetProfit()
	if netProfit <= 0 {
		return 0
	}
	pct := s.CommissionPercent
	if pct <= 0 {
		pct = defaultCommissionPercent
	}
	return netProfit * pct / 100
}
