package h265

import "github.com/ugparu/avparse/utils/bits"

const (
	scalingSizeCount   = 4
	scalingMatrixCount = 6
)

// scalingListEntries enumerates the (sizeID, matrixID) pairs the bitstream
// actually visits. sizeID 3 carries only matrixID 0 and 3.
var scalingListEntries = func() [][2]int {
	var entries [][2]int
	for sizeID := 0; sizeID < scalingSizeCount; sizeID++ {
		step := 1
		if sizeID == 3 {
			step = 3
		}
		for matrixID := 0; matrixID < scalingMatrixCount; matrixID += step {
			entries = append(entries, [2]int{sizeID, matrixID})
		}
	}
	return entries
}()

// scalingListCoefNum returns the coded coefficient count for a size class.
func scalingListCoefNum(sizeID int) int {
	n := 1 << (4 + 2*sizeID)
	if n > 64 {
		n = 64
	}
	return n
}

// ScalingListData is the scaling_list_data syntax of an HEVC SPS or PPS.
// Unvisited (sizeID, matrixID) slots keep their zero values.
type ScalingListData struct {
	PredModeFlag      [scalingSizeCount][scalingMatrixCount]bool
	PredMatrixIDDelta [scalingSizeCount][scalingMatrixCount]uint32
	DcCoefMinus8      [scalingSizeCount][scalingMatrixCount]int32
	Coef              [scalingSizeCount][scalingMatrixCount][]int32
}

// Decode reads the scaling_list_data syntax from r.
func (sl *ScalingListData) Decode(r *bits.Reader) (err error) {
	*sl = ScalingListData{}

	for _, entry := range scalingListEntries {
		sizeID, matrixID := entry[0], entry[1]

		if sl.PredModeFlag[sizeID][matrixID], err = r.ReadFlag(); err != nil {
			return err
		}
		if !sl.PredModeFlag[sizeID][matrixID] {
			// Predicted from a reference matrix, no coefficients coded.
			if sl.PredMatrixIDDelta[sizeID][matrixID], err = r.ReadUE(); err != nil {
				return err
			}
			continue
		}

		if sizeID > 1 {
			if sl.DcCoefMinus8[sizeID][matrixID], err = r.ReadSE(); err != nil {
				return err
			}
		}
		coefs := make([]int32, scalingListCoefNum(sizeID))
		for i := range coefs {
			if coefs[i], err = r.ReadSE(); err != nil {
				return err
			}
		}
		sl.Coef[sizeID][matrixID] = coefs
	}
	return nil
}
