package v1

var (
	KeyPrefixVestingSchedule = []byte{0x40}
	KeyPrefixBatchCache      = []byte{0x41}
)

func LedgerKeyVestingSchedule() LedgerKey {
	k := make([]byte, len(KeyPrefixVestingSchedule))
	copy(k, KeyPrefixVestingSchedule)
	return k
}

func LedgerKeyBatchCache() LedgerKey {
	k := make([]byte, len(KeyPrefixBatchCache))
	copy(k, KeyPrefixBatchCache)
	return k
}
