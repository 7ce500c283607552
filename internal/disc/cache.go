package disc

// DefaultBatchSectors is the number of sectors fetched per physical read.
const DefaultBatchSectors = 32

// BatchCache serves single sectors out of the most recent batch read. A
// request outside the cached batch triggers a fresh read starting at the
// requested index.
type BatchCache struct {
	reader  Reader
	size    int
	start   int
	sectors []Sector
	reads   int
}

// NewBatchCache wraps reader with a cache of size sectors.
func NewBatchCache(reader Reader, size int) *BatchCache {
	if size <= 0 {
		size = DefaultBatchSectors
	}
	return &BatchCache{reader: reader, size: size}
}

// Sector returns the sector at index, reading a new batch when needed. The
// batch never extends to or past end. ok is false when the read produced no
// data for index.
func (c *BatchCache) Sector(index, end int) (Sector, bool) {
	if sector, ok := c.cached(index); ok {
		return sector, true
	}
	c.Invalidate()
	count := min(c.size, end-index)
	if count <= 0 {
		return nil, false
	}
	c.reads++
	sectors, err := c.reader.ReadBatch(index, count)
	if err != nil || len(sectors) == 0 {
		return nil, false
	}
	c.start = index
	c.sectors = sectors
	return c.cached(index)
}

// Invalidate drops the cached batch.
func (c *BatchCache) Invalidate() {
	c.start = 0
	c.sectors = nil
}

// Reads reports how many physical batch reads were issued.
func (c *BatchCache) Reads() int {
	return c.reads
}

func (c *BatchCache) cached(index int) (Sector, bool) {
	offset := index - c.start
	if c.sectors == nil || offset < 0 || offset >= len(c.sectors) {
		return nil, false
	}
	sector := c.sectors[offset]
	if len(sector) != SectorSize {
		return nil, false
	}
	return sector, true
}
