package v1

// kvPair holds the value a key had before it was changed.
// A nil `val` means the key did not exist.
type kvPair[T any] struct {
	key []byte
	val T
}

type revisionList[T any] struct {
	revs []*kvPair[T]
}

func newRevisionList[T any]() *revisionList[T] {
	return &revisionList[T]{
		revs: make([]*kvPair[T], 0),
	}
}

func (revlist *revisionList[T]) set(key []byte, val T) {
	revlist.revs = append(revlist.revs, &kvPair[T]{
		key: key,
		val: val,
	})
}

func (revlist *revisionList[T]) snapshot() int {
	return len(revlist.revs)
}

// since returns the revisions recorded after `snap`, newest last.
func (revlist *revisionList[T]) since(snap int) []*kvPair[T] {
	return revlist.revs[snap:]
}

func (revlist *revisionList[T]) revert(snap int) {
	revlist.revs = revlist.revs[:snap]
}

func (revlist *revisionList[T]) reset() {
	revlist.revs = revlist.revs[:0]
}
