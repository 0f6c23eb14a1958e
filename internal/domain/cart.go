package domain

// CartLine is a product snapshot plus quantity. It never references the live product row.
type CartLine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
}

func LineFromProduct(p Product) CartLine {
	return CartLine{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Quantity:    1,
	}
}

func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart keeps lines in insertion order; product ids are unique within it.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Add(line CartLine) {
	if i := c.index(line.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	c.Lines = append(c.Lines, line)
}

func (c *Cart) Increment(productID string) {
	if i := c.index(productID); i >= 0 {
		c.Lines[i].Quantity++
	}
}

// Decrement removes the line when its quantity would reach zero.
func (c *Cart) Decrement(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if c.Lines[i].Quantity <= 1 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return
	}
	c.Lines[i].Quantity--
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a deep copy so later cart mutations never reach an order.
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}
