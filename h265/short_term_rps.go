package h265

import "github.com/ugparu/avparse/utils/bits"

const (
	maxShortTermRpsSets = 64
	maxShortTermRpsPics = 16 // bounded by sps_max_dec_pic_buffering
)

// ShortTermRPS is one st_ref_pic_set entry. DeltaPocS0/S1 and the used
// flags hold the reconstructed picture order deltas: S0 strictly decreasing
// negatives, S1 strictly increasing positives.
type ShortTermRPS struct {
	InterRefPicSetPredictionFlag bool
	DeltaIdxMinus1               uint32
	DeltaRpsSign                 bool
	AbsDeltaRpsMinus1            uint32

	NumNegativePics uint32
	NumPositivePics uint32
	DeltaPocS0      []int32
	UsedByCurrPicS0 []bool
	DeltaPocS1      []int32
	UsedByCurrPicS1 []bool
}

// NumDeltaPocs returns the total reconstructed delta count.
func (rps *ShortTermRPS) NumDeltaPocs() int {
	return int(rps.NumNegativePics + rps.NumPositivePics)
}

// ShortTermRPSList is the st_ref_pic_set collection of an SPS. Entries
// predict from earlier entries, so they only ever decode front to back.
type ShortTermRPSList struct {
	Sets []ShortTermRPS
}

// Decode reads count st_ref_pic_set entries in index order.
func (l *ShortTermRPSList) Decode(r *bits.Reader, count uint32) error {
	l.Sets = make([]ShortTermRPS, count)
	for i := range l.Sets {
		if err := l.DecodeElement(r, i); err != nil {
			return err
		}
	}
	return nil
}

// DecodeElement reads the entry at idx. Entries below idx must already be
// decoded since they serve as inter prediction references.
func (l *ShortTermRPSList) DecodeElement(r *bits.Reader, idx int) error {
	return l.Sets[idx].decode(r, idx, l.Sets[:idx])
}

// decode reads one entry. prev holds the already decoded lower-index
// entries; it is only consulted for inter prediction.
func (rps *ShortTermRPS) decode(r *bits.Reader, idx int, prev []ShortTermRPS) (err error) {
	*rps = ShortTermRPS{}

	if idx != 0 {
		if rps.InterRefPicSetPredictionFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if rps.InterRefPicSetPredictionFlag {
		return rps.decodePredicted(r, idx, prev)
	}

	if rps.NumNegativePics, err = r.ReadUE(); err != nil {
		return err
	}
	if rps.NumPositivePics, err = r.ReadUE(); err != nil {
		return err
	}
	if rps.NumNegativePics > maxShortTermRpsPics || rps.NumPositivePics > maxShortTermRpsPics {
		return errRange
	}

	rps.DeltaPocS0 = make([]int32, rps.NumNegativePics)
	rps.UsedByCurrPicS0 = make([]bool, rps.NumNegativePics)
	poc := int32(0)
	for i := range rps.DeltaPocS0 {
		d, err := r.ReadUE()
		if err != nil {
			return err
		}
		poc -= int32(d) + 1
		rps.DeltaPocS0[i] = poc
		if rps.UsedByCurrPicS0[i], err = r.ReadFlag(); err != nil {
			return err
		}
	}

	rps.DeltaPocS1 = make([]int32, rps.NumPositivePics)
	rps.UsedByCurrPicS1 = make([]bool, rps.NumPositivePics)
	poc = 0
	for i := range rps.DeltaPocS1 {
		d, err := r.ReadUE()
		if err != nil {
			return err
		}
		poc += int32(d) + 1
		rps.DeltaPocS1[i] = poc
		if rps.UsedByCurrPicS1[i], err = r.ReadFlag(); err != nil {
			return err
		}
	}
	return nil
}

// decodePredicted handles inter_ref_pic_set_prediction_flag == 1: the entry
// is derived from an earlier one, shifted by deltaRps, with per-source
// survival flags. Out-of-range reference indices contribute nothing; a
// corrupt stream degrades to an empty set instead of faulting.
func (rps *ShortTermRPS) decodePredicted(r *bits.Reader, idx int, prev []ShortTermRPS) (err error) {
	if rps.DeltaIdxMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if rps.DeltaRpsSign, err = r.ReadFlag(); err != nil {
		return err
	}
	if rps.AbsDeltaRpsMinus1, err = r.ReadUE(); err != nil {
		return err
	}

	var ref ShortTermRPS
	if refIdx := int64(idx) - (int64(rps.DeltaIdxMinus1) + 1); refIdx >= 0 && refIdx < int64(len(prev)) {
		ref = prev[refIdx]
	}

	deltaRps := int32(rps.AbsDeltaRpsMinus1) + 1
	if rps.DeltaRpsSign {
		deltaRps = -deltaRps
	}

	numDeltaPocs := ref.NumDeltaPocs()
	used := make([]bool, numDeltaPocs+1)
	useDelta := make([]bool, numDeltaPocs+1)
	for j := 0; j <= numDeltaPocs; j++ {
		if used[j], err = r.ReadFlag(); err != nil {
			return err
		}
		useDelta[j] = true
		if !used[j] {
			if useDelta[j], err = r.ReadFlag(); err != nil {
				return err
			}
		}
	}

	numNeg := int(ref.NumNegativePics)
	numPos := int(ref.NumPositivePics)

	// New negative set: reference positives in reverse, the implicit self
	// delta, then reference negatives in order; keep entries that land
	// strictly below zero.
	for j := numPos - 1; j >= 0; j-- {
		if j >= len(ref.DeltaPocS1) || numNeg+j >= numDeltaPocs {
			continue
		}
		if dPoc := ref.DeltaPocS1[j] + deltaRps; dPoc < 0 && useDelta[numNeg+j] {
			rps.DeltaPocS0 = append(rps.DeltaPocS0, dPoc)
			rps.UsedByCurrPicS0 = append(rps.UsedByCurrPicS0, used[numNeg+j])
		}
	}
	if deltaRps < 0 && useDelta[numDeltaPocs] {
		rps.DeltaPocS0 = append(rps.DeltaPocS0, deltaRps)
		rps.UsedByCurrPicS0 = append(rps.UsedByCurrPicS0, used[numDeltaPocs])
	}
	for j := 0; j < numNeg; j++ {
		if j >= len(ref.DeltaPocS0) {
			continue
		}
		if dPoc := ref.DeltaPocS0[j] + deltaRps; dPoc < 0 && useDelta[j] {
			rps.DeltaPocS0 = append(rps.DeltaPocS0, dPoc)
			rps.UsedByCurrPicS0 = append(rps.UsedByCurrPicS0, used[j])
		}
	}
	rps.NumNegativePics = uint32(len(rps.DeltaPocS0))

	// New positive set, same walk with the sign flipped.
	for j := numNeg - 1; j >= 0; j-- {
		if j >= len(ref.DeltaPocS0) {
			continue
		}
		if dPoc := ref.DeltaPocS0[j] + deltaRps; dPoc > 0 && useDelta[j] {
			rps.DeltaPocS1 = append(rps.DeltaPocS1, dPoc)
			rps.UsedByCurrPicS1 = append(rps.UsedByCurrPicS1, used[j])
		}
	}
	if deltaRps > 0 && useDelta[numDeltaPocs] {
		rps.DeltaPocS1 = append(rps.DeltaPocS1, deltaRps)
		rps.UsedByCurrPicS1 = append(rps.UsedByCurrPicS1, used[numDeltaPocs])
	}
	for j := 0; j < numPos; j++ {
		if j >= len(ref.DeltaPocS1) || numNeg+j >= numDeltaPocs {
			continue
		}
		if dPoc := ref.DeltaPocS1[j] + deltaRps; dPoc > 0 && useDelta[numNeg+j] {
			rps.DeltaPocS1 = append(rps.DeltaPocS1, dPoc)
			rps.UsedByCurrPicS1 = append(rps.UsedByCurrPicS1, used[numNeg+j])
		}
	}
	rps.NumPositivePics = uint32(len(rps.DeltaPocS1))
	return nil
}
