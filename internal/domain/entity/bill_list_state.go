package entity

// BillListState is the list view state owned by one browser session.
// It is serialised as JSON when the state store is redis.
type BillListState struct {
	Bills     []Bill `json:"bills"`
	Loaded    bool   `json:"loaded"`
	Page      int    `json:"page"`
	Selected  *Bill  `json:"selected,omitempty"`
	ModalOpen bool   `json:"modal_open"`
}

// FindBill returns the cached bill with the given id, or nil.
func (s *BillListState) FindBill(id string) *Bill {
	for i := range s.Bills {
		if s.Bills[i].ID == id {
			b := s.Bills[i]
			return &b
		}
	}
	return nil
}
