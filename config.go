package lindex

import (
	"go.uber.org/zap"
)

import (
	"github.com/timtadh/lindex/bptree"
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

// Config of an index. The zero value (plus a KeyLength when creating)
// is usable: nodes are planned against consts.BLOCKSIZE, snapshots are
// compressed and nothing is logged.
type Config struct {
	// bytes at the start of each line which form its key. Required to
	// create an index. When opening, a non zero value must match the
	// index file.
	KeyLength int
	// block budget nodes are planned against, default consts.BLOCKSIZE
	BlockSize int
	// store the snapshot without snappy compression
	Uncompressed bool
	Logger       *zap.Logger
}

func (c *Config) withDefaults() *Config {
	var n Config
	if c != nil {
		n = *c
	}
	if n.BlockSize == 0 {
		n.BlockSize = consts.BLOCKSIZE
	}
	if n.Logger == nil {
		n.Logger = zap.NewNop()
	}
	return &n
}

// Validate checks the configuration can create an index, in particular
// that its key length leaves room for at least consts.MINDEGREE keys in
// a node.
func (c *Config) Validate() error {
	if c == nil {
		return errors.Kindf(errors.ErrConfig, "no configuration")
	}
	if c.KeyLength <= 0 {
		return errors.Kindf(errors.ErrConfig, "key length must be positive, got %v", c.KeyLength)
	}
	_, err := c.degree()
	return err
}

func (c *Config) degree() (int, error) {
	bs := c.BlockSize
	if bs == 0 {
		bs = consts.BLOCKSIZE
	}
	return bptree.Degree(bs, c.KeyLength)
}
