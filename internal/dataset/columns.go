package dataset

// Column names consumed or produced by the pipeline
const (
	ColTauL       = "TauL"
	ColForesight  = "foresight"
	ColComplexity = "complexity"
	ColCReact     = "C_react"
	ColCPred      = "C_pred"
	ColNoise      = "noise"
	ColK          = "K"

	ColDeltaC  = "deltaC"
	ColLogTauL = "logTauL"
)

// RequiredColumns lists the input columns every run file is expected to carry
var RequiredColumns = []string{
	ColTauL,
	ColForesight,
	ColComplexity,
	ColCReact,
	ColCPred,
	ColNoise,
	ColK,
}
