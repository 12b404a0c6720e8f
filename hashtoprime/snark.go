package hashtoprime

// GeneralSNARK is the committed-input zkSNARK collaborator consumed by the
// snark_range and snark_hash back-ends. It is out of scope to implement for
// real -- package snarkstub provides a deterministic in-memory stand-in used
// by tests -- the same way accservice.Service stands in for the real
// accumulator maintenance service.
type GeneralSNARK interface {
	Setup(circuitID string) (pk, vk []byte, err error)
	Prove(pk []byte, public, witness [][]byte) (proof []byte, err error)
	Verify(vk []byte, public [][]byte, proof []byte) (bool, error)
}
