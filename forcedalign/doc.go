// Package forcedalign defines the forced-alignment provider contract and the
// pieces shared by its backends: WhisperX output decoding, audio sniffing,
// the optional Redis word-stream cache and the standard middleware stack.
//
// # Backends
//
//   - forcedalign/replicate: WhisperX hosted on Replicate
//   - forcedalign/whisperx: a local whisperx CLI
//
// # Usage
//
//	reg := forcedalign.NewRegistry()
//	reg.RegisterFactory(replicate.ProviderName, replicate.Factory())
//	p, err := reg.Create(replicate.ProviderName, cfg)
//	p = forcedalign.Wrap(p, forcedalign.WrapOptions{Logger: log, Timeout: 5 * time.Minute})
//	resp, err := p.Execute(ctx, forcedalign.Request{Audio: audio})
package forcedalign
