package contracts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

//go:embed artifacts/Lottery.json
var lotteryArtifact []byte

//go:embed artifacts/Voting.json
var votingArtifact []byte

// Methods each binding calls. An artifact missing one of them is rejected at load time
// instead of failing on the first click.
var (
	LotteryMethods = []string{"enter", "getBalance"}
	VotingMethods  = []string{"registerCandidate", "vote", "reset", "getResults", "endTime"}
)

// Artifact is a parsed ABI description.
type Artifact struct {
	Name        string
	ABI         abi.ABI
	Fingerprint common.Hash
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// ParseArtifact accepts either a compiler artifact ({"abi": [...]}) or a bare ABI array.
func ParseArtifact(name string, data []byte, required ...string) (*Artifact, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil, errors.New("empty ABI description")
	}

	if raw[0] != '[' {
		var file artifactFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, errors.Wrap(err, "failed to decode artifact")
		}
		if len(file.ABI) == 0 {
			return nil, errors.New("artifact has no abi field")
		}
		if file.ContractName != "" {
			name = file.ContractName
		}
		raw = file.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ABI")
	}

	for _, method := range required {
		if _, ok := parsed.Methods[method]; !ok {
			return nil, errors.Errorf("ABI of %s has no method %q", name, method)
		}
	}

	return &Artifact{
		Name:        name,
		ABI:         parsed,
		Fingerprint: fingerprint(raw),
	}, nil
}

// LoadArtifact reads the ABI description at path, or uses the embedded one when path is empty.
func LoadArtifact(name, path string, embedded []byte, required ...string) (*Artifact, error) {
	data := embedded
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		data, err = os.ReadFile(absPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read ABI description %s", absPath)
		}
	}
	return ParseArtifact(name, data, required...)
}

func LotteryArtifact(path string) (*Artifact, error) {
	return LoadArtifact("Lottery", path, lotteryArtifact, LotteryMethods...)
}

func VotingArtifact(path string) (*Artifact, error) {
	return LoadArtifact("Voting", path, votingArtifact, VotingMethods...)
}

// fingerprint hashes the compacted ABI so formatting differences do not change it.
func fingerprint(raw []byte) common.Hash {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(buf.Bytes())
	return common.BytesToHash(h.Sum(nil))
}
