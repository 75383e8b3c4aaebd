package domain

// Snapshot is the persisted per-user aggregate and the unit of load/save for
// the persistence gateway. A nil slice means "not present" in a partial save:
// the remote merge-write preserves that array instead of replacing it.
type Snapshot struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Investments  []Holding     `json:"investments"`
}

// Clone returns a deep-enough copy for handing to another goroutine: the
// slices are copied, the elements are value types.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{}
	if s.Accounts != nil {
		out.Accounts = append([]Account{}, s.Accounts...)
	}
	if s.Transactions != nil {
		out.Transactions = append([]Transaction{}, s.Transactions...)
	}
	if s.Investments != nil {
		out.Investments = append([]Holding{}, s.Investments...)
	}
	return out
}
