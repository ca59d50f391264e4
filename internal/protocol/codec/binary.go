package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/mighty/internal/protocol"
)

// 二进制帧使用 google.protobuf.Struct 承载与文本帧相同的信封：
// {"type": string, "id": string, "payload": Value}
const (
	fieldType    = "type"
	fieldID      = "id"
	fieldPayload = "payload"
)

// EncodeBinary 将消息编码为 Protobuf 字节
func EncodeBinary(m *protocol.Message) ([]byte, error) {
	env := getEnvelope()
	defer putEnvelope(env)

	env.Fields = map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(m.Type)),
	}
	if m.ID != "" {
		env.Fields[fieldID] = structpb.NewStringValue(m.ID)
	}
	if len(m.Payload) > 0 {
		payload := &structpb.Value{}
		if err := protojson.Unmarshal(m.Payload, payload); err != nil {
			return nil, fmt.Errorf("转换 %s 负载失败: %w", m.Type, err)
		}
		env.Fields[fieldPayload] = payload
	}
	return proto.Marshal(env)
}

// DecodeBinary 从 Protobuf 字节解码消息
func DecodeBinary(data []byte) (*protocol.Message, error) {
	env := getEnvelope()
	defer putEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, err
	}

	msgType := env.GetFields()[fieldType].GetStringValue()
	if msgType == "" {
		return nil, fmt.Errorf("消息缺少 type 字段")
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(msgType)
	msg.ID = env.GetFields()[fieldID].GetStringValue()
	if payload, ok := env.GetFields()[fieldPayload]; ok {
		raw, err := protojson.Marshal(payload)
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = raw
	}
	return msg, nil
}
