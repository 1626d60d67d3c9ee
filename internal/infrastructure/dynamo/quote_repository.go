package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
)

var _ repository.QuoteRemoteRepository = (*QuoteRepo)(nil)

// quoteItem es la forma de la cotización en la tabla.
//
// Requisitos de la tabla:
//   - PK: id (string)
//
// Los montos viajan como string decimal exacto para no perder precisión con
// los números de punto flotante de DynamoDB.
type quoteItem struct {
	ID              string    `dynamodbav:"id"`
	Status          string    `dynamodbav:"status"`
	ClienteName     string    `dynamodbav:"cliente_name"`
	VendorName      string    `dynamodbav:"vendor_name"`
	VendorEmail     string    `dynamodbav:"vendor_email"`
	Rows            []rowItem `dynamodbav:"rows"`
	TotalGeneral    string    `dynamodbav:"total_general"`
	TRMGlobal       string    `dynamodbav:"trm_global"`
	RejectionReason string    `dynamodbav:"rejection_reason"`
	CreatedAt       string    `dynamodbav:"created_at"`
	UpdatedAt       string    `dynamodbav:"updated_at"`
}

type rowItem struct {
	ID          string `dynamodbav:"id"`
	Descripcion string `dynamodbav:"descripcion"`
	Cantidad    string `dynamodbav:"cantidad"`
	CostoUSD    string `dynamodbav:"costo_usd"`
	PrecioCOP   string `dynamodbav:"precio_cop"`
	TRM         string `dynamodbav:"trm"`
}

// QuoteRepo implementación del espejo remoto sobre DynamoDB.
type QuoteRepo struct {
	ddb       *dynamodb.Client
	tableName string
}

// NewQuoteRepository construye el adaptador remoto.
func NewQuoteRepository(ddb *dynamodb.Client, tableName string) *QuoteRepo {
	if tableName == "" {
		tableName = "cotizaciones"
	}
	return &QuoteRepo{ddb: ddb, tableName: tableName}
}

// Upsert crea o reemplaza el registro remoto (PutItem es idempotente por PK).
func (r *QuoteRepo) Upsert(ctx context.Context, q *entity.Quote) error {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return fmt.Errorf("serializar item: %w", err)
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// GetByID obtiene un registro remoto. Devuelve nil, nil si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("decodificar item: %w", err)
	}
	return fromQuoteItem(it), nil
}

// List devuelve todos los registros remotos (Scan paginado).
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	var list []*entity.Quote
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var items []quoteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("decodificar items: %w", err)
		}
		for _, it := range items {
			list = append(list, fromQuoteItem(it))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return list, nil
}

func toQuoteItem(q *entity.Quote) quoteItem {
	rows := make([]rowItem, 0, len(q.Rows))
	for _, r := range q.Rows {
		rows = append(rows, rowItem{
			ID:          r.ID,
			Descripcion: r.Descripcion,
			Cantidad:    r.Cantidad.String(),
			CostoUSD:    r.CostoUSD.String(),
			PrecioCOP:   r.PrecioCOP.String(),
			TRM:         r.TRM.String(),
		})
	}
	return quoteItem{
		ID:              q.ID,
		Status:          string(q.Status),
		ClienteName:     q.ClienteName,
		VendorName:      q.VendorName,
		VendorEmail:     q.VendorEmail,
		Rows:            rows,
		TotalGeneral:    q.TotalGeneral.String(),
		TRMGlobal:       q.TRMGlobal.String(),
		RejectionReason: q.RejectionReason,
		CreatedAt:       q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromQuoteItem(it quoteItem) *entity.Quote {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	q := &entity.Quote{
		ID:              it.ID,
		Status:          entity.NormalizeStatus(it.Status),
		ClienteName:     it.ClienteName,
		VendorName:      it.VendorName,
		VendorEmail:     it.VendorEmail,
		TotalGeneral:    parseDecimal(it.TotalGeneral),
		TRMGlobal:       parseDecimal(it.TRMGlobal),
		RejectionReason: it.RejectionReason,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	q.Rows = make([]entity.QuoteRow, 0, len(it.Rows))
	for _, r := range it.Rows {
		q.Rows = append(q.Rows, entity.QuoteRow{
			ID:          r.ID,
			Descripcion: r.Descripcion,
			Cantidad:    parseDecimal(r.Cantidad),
			CostoUSD:    parseDecimal(r.CostoUSD),
			PrecioCOP:   parseDecimal(r.PrecioCOP),
			TRM:         parseDecimal(r.TRM),
		})
	}
	return q
}
