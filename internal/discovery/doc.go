// Package discovery finds and advertises sketchui services over mDNS.
//
// Two service types exist. Describer servers advertise DescriberService so
// the upload command can find one without a configured URL. A running editor
// advertises its live preview server as PreviewService so browsers and other
// tools on the network can follow along.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	svc, err := scanner.First(ctx, discovery.DescriberService)
//	if err != nil {
//	    return err
//	}
//	client := ingest.NewClient(svc.BaseURL())
//
// Advertising the preview server:
//
//	ad, err := discovery.Advertise("my-laptop", discovery.PreviewService, 7070, []string{"path=/ws"})
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Services must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
