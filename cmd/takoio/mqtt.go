/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Comcast/tako/sio"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings is an sio.Couplings for an MQTT client.
//
// Emitted messages are published to their "topic" property (or
// DefaultOutboundTopic), and errors go to ErrorTopic if that's set.
type MQTTCouplings struct {
	Client               mqtt.Client
	Quiesce              uint
	SubTopics            string
	InjectTopic          bool
	WrapWithTopic        bool
	DefaultOutboundTopic string
	ErrorTopic           string

	InTimeout time.Duration

	Logger *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	incoming chan interface{}
	outbound chan *sio.Result
	done     chan bool
	wg       sync.WaitGroup
}

func NewMQTTCouplings(args []string, logger *slog.Logger) (*MQTTCouplings, *flag.FlagSet) {
	var (
		// Follow mosquitto_sub command line args.

		fs = flag.NewFlagSet("mq", flag.ExitOnError)

		broker      = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId    = fs.String("i", "", "Client id")
		port        = fs.Int("p", 1883, "Broker port")
		keepAlive   = fs.Int("k", 10, "Keep-alive in seconds")
		userName    = fs.String("u", "", "Username")
		password    = fs.String("P", "", "Password")
		willTopic   = fs.String("will-topic", "", "Optional will topic")
		willPayload = fs.String("will-payload", "", "Optional will message")
		willQoS     = fs.Int("will-qos", 0, "Optional will QoS")
		willRetain  = fs.Bool("will-retain", false, "Optional will retention")
		reconnect   = fs.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean       = fs.Bool("c", true, "Clean session")
		quiesce     = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = fs.String("cert", "", "Optional cert filename")
		keyFilename  = fs.String("key", "", "Optional key filename")
		insecure     = fs.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = fs.String("cafile", "", "Optional CA cert filename")
		caPath       = fs.String("capath", "", "Optional path to CA cert filename")

		subTopics = fs.String("t", "", "subscription topic(s)")

		injectTopic          = fs.Bool("inject-topic", true, "put topic in map of incoming messages")
		wrapWithTopic        = fs.Bool("wrap-with-topic", false, "wrap non-maps in a map along with the topic")
		defaultOutboundTopic = fs.String("def-outbound-topic", "misc", "Default out-bound message topic")
		errorTopic           = fs.String("error-topic", "", "Optional topic for errors")
		inTimeout            = fs.Duration("in-timeout", time.Second, "timeout for in-bound queuing")
	)

	if args == nil {
		return nil, fs
	}

	fs.Parse(args)

	if logger == nil {
		logger = slog.Default()
	}

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	opts := mqtt.NewClientOptions()

	opts.AddBroker(fmt.Sprintf("%s:%d", *broker, *port))
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	if *willTopic != "" {
		if *willPayload == "" {
			logger.Error("will topic without payload")
			os.Exit(1)
		}
		opts.WillEnabled = true
		opts.WillTopic = *willTopic
		opts.WillPayload = []byte(*willPayload)
		opts.WillRetained = *willRetain
		opts.WillQos = byte(*willQoS)
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}

	if *caFilename != "" {
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		filename := filepath.Join(*caPath, *caFilename)
		certs, err := os.ReadFile(filename)
		if err != nil {
			logger.Error("couldn't read CA file", "filename", filename, "err", err)
			os.Exit(1)
		}
		if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
			logger.Warn("no certs appended, using system certs only")
		}
		tlsConf.RootCAs = rootCAs
	}

	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			logger.Error("couldn't load key pair", "err", err)
			os.Exit(1)
		}
		tlsConf.Certificates = []tls.Certificate{cert}
	}

	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "err", err)
	}

	c := &MQTTCouplings{
		Quiesce:              uint(*quiesce),
		SubTopics:            *subTopics,
		InjectTopic:          *injectTopic,
		WrapWithTopic:        *wrapWithTopic,
		DefaultOutboundTopic: *defaultOutboundTopic,
		ErrorTopic:           *errorTopic,
		InTimeout:            *inTimeout,
		Logger:               logger,

		incoming: make(chan interface{}),
		outbound: make(chan *sio.Result),
		done:     make(chan bool),
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		c.inHandler(client, msg)
	}

	c.Client = mqtt.NewClient(opts)

	return c, fs
}

// inHandler is a Paho publish handler, which is used to handle
// messages sent to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(client mqtt.Client, msg mqtt.Message) {
	var (
		x       interface{}
		payload = msg.Payload()
		topic   = msg.Topic()
	)
	c.Logger.Debug("incoming", "topic", topic, "payload", string(payload))

	if err := json.Unmarshal(payload, &x); err != nil {
		c.Logger.Warn("couldn't JSON-parse payload", "payload", string(payload))
		x = string(payload)
	} else if m, is := x.(map[string]interface{}); is {
		if c.InjectTopic {
			m["topic"] = topic
		}
	} else if c.WrapWithTopic {
		x = map[string]interface{}{
			"topic":   topic,
			"payload": string(payload),
		}
	}

	to := time.NewTimer(c.InTimeout)
	defer to.Stop()

	select {
	case <-c.ctx.Done():
		c.Logger.Debug("not forwarding due to ctx.Done()")
	case c.incoming <- x:
	case <-to.C:
		c.Logger.Warn("not forwarding due to stall", "topic", topic)
	}
}

// Start creates the MQTT session.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.Logger.Info("connecting to broker")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	for _, topic := range strings.Split(c.SubTopics, ",") {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		c.Logger.Info("subscribing", "topic", topic, "qos", qos)
		if t := c.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.outLoop(c.ctx); err != nil {
			c.Logger.Error("outLoop", "err", err)
		}
	}()

	return nil
}

// IO returns the channels that NewMQTTCouplings made.
func (c *MQTTCouplings) IO(ctx context.Context) (chan interface{}, chan *sio.Result, chan bool, error) {
	return c.incoming, c.outbound, c.done, nil
}

func (c *MQTTCouplings) publish(topic string, qos byte, x interface{}) error {
	js, err := json.Marshal(x)
	if err != nil {
		return err
	}
	token := c.Client.Publish(topic, qos, false, js)
	token.Wait()
	return token.Error()
}

// outLoop forwards emitted messages to the MQTT broker.
func (c *MQTTCouplings) outLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-c.outbound:
			for _, x := range r.Emitted {
				topic, qos := parseTopic(c.DefaultOutboundTopic)
				if m, is := x.(map[string]interface{}); is {
					if s, is := m["topic"].(string); is {
						topic = s
					}
					if n, have := m["qos"]; have {
						if f, is := n.(float64); is {
							qos = byte(f)
						} else {
							c.Logger.Warn("ignoring qos", "qos", n)
						}
					}
				}
				if err := c.publish(topic, qos, x); err != nil {
					return err
				}
			}
			if r.Err != "" && c.ErrorTopic != "" {
				topic, qos := parseTopic(c.ErrorTopic)
				if err := c.publish(topic, qos, r); err != nil {
					return err
				}
			}
		}
	}
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	c.Logger.Info("disconnecting")
	c.Client.Disconnect(c.Quiesce)
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	close(c.done)
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	var topic string
	var qos byte
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%s %d", &topic, &qos); err == nil {
		return topic, qos
	}
	return s, 0
}
