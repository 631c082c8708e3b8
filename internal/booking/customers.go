package booking

import (
	"slices"
	"sync"
)

// customerBookings is the booking list of one customer, guarded by its own
// lock. It is never held while another lock is acquired.
type customerBookings struct {
	mu  sync.Mutex
	ids []string
}

func (c *customerBookings) append(bookingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids = append(c.ids, bookingID)
}

func (c *customerBookings) remove(bookingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids = slices.DeleteFunc(c.ids, func(id string) bool {
		return id == bookingID
	})
}

func (c *customerBookings) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.ids)
}

type customerDirectory struct {
	mu        sync.Mutex
	customers map[string]*customerBookings
}

func newCustomerDirectory() *customerDirectory {
	return &customerDirectory{
		customers: make(map[string]*customerBookings),
	}
}

func (d *customerDirectory) listFor(customerID string) *customerBookings {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, ok := d.customers[customerID]
	if !ok {
		list = &customerBookings{}
		d.customers[customerID] = list
	}

	return list
}

func (d *customerDirectory) lookup(customerID string) (*customerBookings, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, ok := d.customers[customerID]
	return list, ok
}
