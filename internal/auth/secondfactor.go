package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrSecondFactorFailed marks a failed second-factor verification. The
// primary credential survives it; only the admin role claim is withheld.
var ErrSecondFactorFailed = errors.New("second factor verification failed")

// Proof carries the evidence presented for the second factor.
type Proof struct {
	// FaceDescriptor is the 128-dimension embedding produced by the
	// client-side face recognition model.
	FaceDescriptor []float64 `json:"face_descriptor"`
}

// SecondFactor is the capability interface for the session gate's second
// authentication step.
type SecondFactor interface {
	// Kind names the factor ("none", "face_match").
	Kind() string

	// Verify checks the proof for the given subject. A failure returns an
	// error wrapping ErrSecondFactorFailed.
	Verify(ctx context.Context, subject string, proof Proof) error
}

// NoneFactor is the pass-through second factor for deployments that disable
// the biometric step.
type NoneFactor struct{}

// Kind returns the factor name.
func (NoneFactor) Kind() string { return "none" }

// Verify always succeeds.
func (NoneFactor) Verify(context.Context, string, Proof) error { return nil }

// faceMatchThreshold is the maximum Euclidean distance between the stored
// and presented descriptors for a match.
const faceMatchThreshold = 0.6

// DescriptorStore persists enrolled face descriptors per subject.
type DescriptorStore interface {
	Get(ctx context.Context, subject string) ([]float64, error)
	Save(ctx context.Context, subject string, descriptor []float64) error
}

// ErrDescriptorNotEnrolled is returned by DescriptorStore.Get when no
// descriptor exists for the subject.
var ErrDescriptorNotEnrolled = errors.New("no face descriptor enrolled")

// MemoryDescriptorStore is an in-memory DescriptorStore for tests and
// single-node deployments.
type MemoryDescriptorStore struct {
	mu          sync.RWMutex
	descriptors map[string][]float64
}

// NewMemoryDescriptorStore creates an empty in-memory descriptor store.
func NewMemoryDescriptorStore() *MemoryDescriptorStore {
	return &MemoryDescriptorStore{descriptors: make(map[string][]float64)}
}

// Get returns the enrolled descriptor for a subject.
func (s *MemoryDescriptorStore) Get(_ context.Context, subject string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.descriptors[subject]
	if !ok {
		return nil, ErrDescriptorNotEnrolled
	}
	out := make([]float64, len(d))
	copy(out, d)
	return out, nil
}

// Save stores the descriptor for a subject.
func (s *MemoryDescriptorStore) Save(_ context.Context, subject string, descriptor []float64) error {
	d := make([]float64, len(descriptor))
	copy(d, descriptor)
	s.mu.Lock()
	s.descriptors[subject] = d
	s.mu.Unlock()
	return nil
}

// FaceMatchFactor verifies a presented face descriptor against the enrolled
// one by Euclidean distance. The first presentation for a subject enrolls
// the descriptor and passes.
type FaceMatchFactor struct {
	store DescriptorStore
}

// NewFaceMatchFactor creates a face-match second factor over the given store.
func NewFaceMatchFactor(store DescriptorStore) *FaceMatchFactor {
	return &FaceMatchFactor{store: store}
}

// Kind returns the factor name.
func (f *FaceMatchFactor) Kind() string { return "face_match" }

// Verify checks the presented descriptor. With no enrolled descriptor the
// presentation enrolls and passes; otherwise distance must stay under the
// match threshold.
func (f *FaceMatchFactor) Verify(ctx context.Context, subject string, proof Proof) error {
	if len(proof.FaceDescriptor) == 0 {
		return fmt.Errorf("%w: no face descriptor presented", ErrSecondFactorFailed)
	}

	enrolled, err := f.store.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrDescriptorNotEnrolled) {
			if err := f.store.Save(ctx, subject, proof.FaceDescriptor); err != nil {
				return fmt.Errorf("enroll face descriptor: %w", err)
			}
			return nil
		}
		return fmt.Errorf("load face descriptor: %w", err)
	}

	dist, err := euclideanDistance(enrolled, proof.FaceDescriptor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSecondFactorFailed, err)
	}
	if dist >= faceMatchThreshold {
		return fmt.Errorf("%w: descriptor distance %.3f", ErrSecondFactorFailed, dist)
	}

	return nil
}

// euclideanDistance computes the L2 distance between two descriptors of
// equal dimension.
func euclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("descriptor dimensions differ: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
