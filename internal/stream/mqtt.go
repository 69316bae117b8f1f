package stream

import (
	"encoding/binary"
	"fmt"
	"image"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Sink publishes composed frames to an MQTT topic for remote pixel
// displays (LED matrices and the like).
type Sink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// Connect dials the broker and returns a publishing sink.
func Connect(url, username, password, clientID, topic string) (*Sink, error) {
	options := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)

	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", url, token.Error())
	}
	return &Sink{client: client, topic: topic, qos: 0}, nil
}

// WriteFrame publishes one frame.
func (s *Sink) WriteFrame(img *image.RGBA, _ time.Duration) error {
	token := s.client.Publish(s.topic, s.qos, false, marshalFrame(img))
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (s *Sink) Close() error {
	s.client.Disconnect(250)
	return nil
}

// marshalFrame packs a surface as little-endian width and height followed
// by RGB triples, row-major.
func marshalFrame(img *image.RGBA) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	data := make([]byte, 4, 4+w*h*3)
	binary.LittleEndian.PutUint16(data[0:], uint16(w))
	binary.LittleEndian.PutUint16(data[2:], uint16(h))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			data = append(data, row[i], row[i+1], row[i+2])
		}
	}
	return data
}
