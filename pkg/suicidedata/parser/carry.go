package parser

// carried holds a label that is written once per group of rows and implied
// for the rows below it until the next non-empty label.
type carried struct {
	value string
	set   bool
}

func (c *carried) update(v string) {
	c.value, c.set = v, true
}

func (c *carried) reset() {
	c.value, c.set = "", false
}
