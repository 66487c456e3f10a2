// Package pcap turns packet capture files into sequence corpora: every flow
// becomes a sequence and every packet an itemset of descriptive tokens.
package pcap

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// pcapng section header block type.
var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// Reader reads packets from pcap or pcapng files and groups them into flows.
type Reader struct {
	file      *os.File
	source    *gopacket.PacketSource
	extractor *FeatureExtractor
	vocab     *spmf.Vocabulary
	window    int
}

// Option configures a Reader.
type Option func(*Reader)

// WithWindow caps the number of packets per sequence. A flow longer than n
// packets yields several sequences. Zero keeps whole flows.
func WithWindow(n int) Option {
	return func(r *Reader) {
		r.window = n
	}
}

// WithVocabulary replaces tokens by integer items from v.
func WithVocabulary(v *spmf.Vocabulary) Option {
	return func(r *Reader) {
		r.vocab = v
	}
}

// NewFileReader creates a reader for a capture file.
func NewFileReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r, err := NewReaderFrom(file, opts...)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file

	return r, nil
}

// NewReaderFrom creates a reader over capture data in src.
func NewReaderFrom(src io.Reader, opts ...Option) (*Reader, error) {
	br := bufio.NewReader(src)
	magic, err := br.Peek(len(ngMagic))
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}

	var source *gopacket.PacketSource
	if bytes.Equal(magic, ngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, err
		}
		source = gopacket.NewPacketSource(ng, ng.LinkType())
	} else {
		pr, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, err
		}
		source = gopacket.NewPacketSource(pr, pr.LinkType())
	}

	r := &Reader{
		source:    source,
		extractor: NewFeatureExtractor(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Read returns one sequence per flow, in order of each flow's first packet.
func (r *Reader) Read() ([]spmf.Sequence, error) {
	if r.source == nil {
		return nil, errors.New("reader not initialized")
	}

	var data []spmf.Sequence
	err := r.each(context.Background(), func(seq spmf.Sequence) bool {
		data = append(data, seq)
		return true
	})
	return data, err
}

// Stream returns a channel of sequences. Windowed sequences are sent as soon
// as they fill up, the rest once the capture ends.
func (r *Reader) Stream(ctx context.Context) (<-chan spmf.Sequence, error) {
	if r.source == nil {
		return nil, errors.New("reader not initialized")
	}

	out := make(chan spmf.Sequence, 1000)

	go func() {
		defer close(out)
		r.each(ctx, func(seq spmf.Sequence) bool {
			select {
			case out <- seq:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	return out, nil
}

// each groups packets by flow and calls emit for every finished sequence
// until emit returns false.
func (r *Reader) each(ctx context.Context, emit func(spmf.Sequence) bool) error {
	flows := newFlowTable()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		packet, err := r.source.NextPacket()
		// A capture cut off mid-record ends like a complete one.
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read packet: %w", err)
		}

		set := r.itemset(packet)
		if set == nil {
			continue
		}

		key := flowKey(packet)
		seq := flows.add(key, set)
		if r.window > 0 && len(seq) >= r.window {
			flows.reset(key)
			if !emit(seq) {
				return nil
			}
		}
	}

	for _, seq := range flows.drain() {
		if !emit(seq) {
			return nil
		}
	}
	return nil
}

func (r *Reader) itemset(packet gopacket.Packet) spmf.Itemset {
	set := r.extractor.Extract(packet)
	if set == nil || r.vocab == nil {
		return set
	}
	ids := make([]int, len(set))
	for i, tok := range set {
		ids[i] = r.vocab.ID(tok)
	}
	return spmf.Ints(ids...)
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

type flowID struct {
	network   uint64
	transport uint64
}

// flowKey is symmetric: both directions of a conversation share a key.
func flowKey(packet gopacket.Packet) flowID {
	var key flowID
	if nl := packet.NetworkLayer(); nl != nil {
		key.network = nl.NetworkFlow().FastHash()
	}
	if tl := packet.TransportLayer(); tl != nil {
		key.transport = tl.TransportFlow().FastHash()
	}
	return key
}

// flowTable keeps open sequences in order of first appearance.
type flowTable struct {
	order []flowID
	open  map[flowID]spmf.Sequence
}

func newFlowTable() *flowTable {
	return &flowTable{open: make(map[flowID]spmf.Sequence)}
}

func (t *flowTable) add(key flowID, set spmf.Itemset) spmf.Sequence {
	seq, ok := t.open[key]
	if !ok {
		t.order = append(t.order, key)
	}
	seq = append(seq, set)
	t.open[key] = seq
	return seq
}

func (t *flowTable) reset(key flowID) {
	t.open[key] = nil
}

func (t *flowTable) drain() []spmf.Sequence {
	var out []spmf.Sequence
	for _, key := range t.order {
		if seq := t.open[key]; len(seq) > 0 {
			out = append(out, seq)
		}
	}
	return out
}

// FeatureExtractor describes a packet as a set of tokens.
type FeatureExtractor struct{}

// NewFeatureExtractor creates a new packet feature extractor.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract converts a packet to an itemset. Packets without a network layer
// yield nil. Tokens:
//
//	proto=tcp|udp|icmp|other  svc=<lower port>  dir=req|resp
//	flag=syn|ack|fin|rst|psh|urg  icmp=<type>  size=small|medium|large|jumbo
//	payload
func (e *FeatureExtractor) Extract(packet gopacket.Packet) spmf.Itemset {
	if packet.NetworkLayer() == nil {
		return nil
	}

	var set spmf.Itemset

	if tcpLayer := packet.Layer(layers.LayerTypeTCP); tcpLayer != nil {
		tcp := tcpLayer.(*layers.TCP)
		set = append(set, "proto=tcp")
		set = append(set, ports(uint16(tcp.SrcPort), uint16(tcp.DstPort))...)
		set = append(set, tcpFlags(tcp)...)
	} else if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
		udp := udpLayer.(*layers.UDP)
		set = append(set, "proto=udp")
		set = append(set, ports(uint16(udp.SrcPort), uint16(udp.DstPort))...)
	} else if icmpLayer := packet.Layer(layers.LayerTypeICMPv4); icmpLayer != nil {
		icmp := icmpLayer.(*layers.ICMPv4)
		set = append(set, "proto=icmp", fmt.Sprintf("icmp=%d", icmp.TypeCode.Type()))
	} else {
		set = append(set, "proto=other")
	}

	set = append(set, "size="+sizeClass(len(packet.Data())))

	if app := packet.ApplicationLayer(); app != nil && len(app.Payload()) > 0 {
		set = append(set, "payload")
	}

	return set
}

// ports treats the lower port as the service port.
func ports(src, dst uint16) []string {
	if dst <= src {
		return []string{fmt.Sprintf("svc=%d", dst), "dir=req"}
	}
	return []string{fmt.Sprintf("svc=%d", src), "dir=resp"}
}

func tcpFlags(tcp *layers.TCP) []string {
	var flags []string
	if tcp.SYN {
		flags = append(flags, "flag=syn")
	}
	if tcp.ACK {
		flags = append(flags, "flag=ack")
	}
	if tcp.FIN {
		flags = append(flags, "flag=fin")
	}
	if tcp.RST {
		flags = append(flags, "flag=rst")
	}
	if tcp.PSH {
		flags = append(flags, "flag=psh")
	}
	if tcp.URG {
		flags = append(flags, "flag=urg")
	}
	return flags
}

func sizeClass(n int) string {
	switch {
	case n < 128:
		return "small"
	case n < 512:
		return "medium"
	case n <= 1514:
		return "large"
	default:
		return "jumbo"
	}
}
