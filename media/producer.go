package media

import "github.com/pion/webrtc/v4"

type producer struct {
	handle
	id     string
	kind   Kind
	params RTPParameters
}

func (p *producer) ID() string                   { return p.id }
func (p *producer) Kind() Kind                   { return p.kind }
func (p *producer) RTPParameters() RTPParameters { return p.params }

func (p *producer) Close() error {
	p.markClosed()
	return nil
}

type consumer struct {
	handle
	id         string
	producerID string
	kind       Kind
	params     RTPParameters
	track      *webrtc.TrackLocalStaticRTP
}

func (c *consumer) ID() string                   { return c.id }
func (c *consumer) ProducerID() string           { return c.producerID }
func (c *consumer) Kind() Kind                   { return c.kind }
func (c *consumer) RTPParameters() RTPParameters { return c.params }

func (c *consumer) Close() error {
	c.markClosed()
	return nil
}
