package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/customers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/idempotency"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/logging"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/orders"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/validation"
)

// HandlerConfig groups dependencies for the back-office API handlers.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	IdempotencyTable string
	OrdersTable      string
	CustomersTable   string
	AdminUsersTable  string
	QueueURL         string
	TTLWindow        time.Duration
	Log              logging.Logger
}

// RegisterOrdersRoutes registers the order mutation surface. Every
// successful mutation publishes an OrderChangeEvent; the notifier decides
// whether that mutation is worth an email.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	idempStore := idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow)
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	customersStore := customers.NewStore(cfg.DynamoDBClient, cfg.CustomersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		orderID := uuid.NewString()
		now := time.Now().UTC()

		idempItem := map[string]interface{}{
			"idempotency_key": idempKey,
			"status":          idempotency.StatusInProgress,
			"created_at":      now.Format(time.RFC3339),
			"updated_at":      now.Format(time.RFC3339),
			"order_id":        orderID,
		}

		items := make([]orders.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.LineItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Category:  it.Category,
				Roast:     it.Roast,
				ImageURL:  it.ImageURL,
				Grams:     it.Grams,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  float64(it.Quantity) * it.UnitPrice,
			})
		}

		order := orders.Order{
			OrderID:     orderID,
			OrderNumber: req.OrderNumber,
			CustomerID:  req.CustomerID,
			Status:      "RECEIVED",
			Items:       items,
			TotalAmount: req.TotalAmount,
			Currency:    req.Currency,
			DeliveryAddress: orders.Address{
				Label:      req.DeliveryAddress.Label,
				Line1:      req.DeliveryAddress.Line1,
				Line2:      req.DeliveryAddress.Line2,
				City:       req.DeliveryAddress.City,
				State:      req.DeliveryAddress.State,
				PostalCode: req.DeliveryAddress.PostalCode,
				Phone:      req.DeliveryAddress.Phone,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := ordersStore.CreateWithIdempotencyTransaction(ctx, cfg.IdempotencyTable, idempItem, order, cfg.TTLWindow)
		if err != nil {
			// Transaction failed, most likely because the idempotency key
			// exists. Inspect the record and answer accordingly.
			rec, getErr := idempStore.Get(ctx, idempKey)
			if getErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": getErr.Error()})
				return
			}
			if rec == nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction_failed_no_idempotency_record", "detail": err.Error()})
				return
			}
			switch rec.Status {
			case idempotency.StatusDone:
				if rec.ResponseBody != "" {
					c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
					return
				}
				c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
				return
			case idempotency.StatusInProgress:
				c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress", "order_id": rec.OrderID})
				return
			case idempotency.StatusFailed:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed", "order_id": rec.OrderID})
				return
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
				return
			}
		}

		// Denormalized customer aggregates: bumped exactly once per created
		// order, here and nowhere else. Best-effort; the order exists either way.
		if err := customersStore.RecordOrder(ctx, req.CustomerID, req.TotalAmount); err != nil {
			cfg.Log.Errorw("failed to record customer aggregates",
				"order_id", orderID, "customer_id", req.CustomerID, "error", err)
		}

		ev := aws.OrderChangeEvent{
			EventType:     aws.EventOrderCreated,
			OrderID:       orderID,
			AfterStatus:   order.Status,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if err := publisher.PublishOrderChange(ctx, ev); err != nil {
			// mark idempotency failed so the client can retry under the same key
			_ = idempStore.MarkFailed(ctx, idempKey, fmt.Sprintf("publish_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed", "detail": err.Error()})
			return
		}

		responseBody, _ := json.Marshal(gin.H{"order_id": orderID, "order_number": req.OrderNumber, "status": order.Status})
		_ = idempStore.MarkDone(ctx, idempKey, string(responseBody), http.StatusCreated)

		c.Header("Location", fmt.Sprintf("/orders/%s", orderID))
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID, "order_number": req.OrderNumber, "status": order.Status})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := ordersStore.Get(ctx, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.PATCH("/orders/:id/status", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("id")

		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		order, err := ordersStore.Get(ctx, orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}

		beforeStatus := order.Status
		var tracking *orders.TrackingUpdate
		if req.TrackingID != "" || req.TrackingURL != "" || req.Courier != "" || req.EstimatedDelivery != "" {
			tracking = &orders.TrackingUpdate{
				TrackingID:        req.TrackingID,
				TrackingURL:       req.TrackingURL,
				Courier:           req.Courier,
				EstimatedDelivery: req.EstimatedDelivery,
			}
		}

		// The guard is on the status we just read: a concurrent edit turns
		// into a 409 instead of a silent lost update. No legality check on
		// the transition itself; operators may move orders anywhere.
		if err := ordersStore.UpdateStatus(ctx, orderID, beforeStatus, req.Status, tracking); err != nil {
			if err == orders.ErrConditionFailed {
				c.JSON(http.StatusConflict, gin.H{"error": "order_modified_concurrently"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "detail": err.Error()})
			return
		}

		ev := aws.OrderChangeEvent{
			EventType:     aws.EventOrderUpdated,
			OrderID:       orderID,
			BeforeStatus:  beforeStatus,
			AfterStatus:   req.Status,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if err := publisher.PublishOrderChange(ctx, ev); err != nil {
			// The status change is committed; the notification is a side
			// effect and its loss must not fail the mutation.
			cfg.Log.Errorw("failed to publish order change",
				"order_id", orderID, "after_status", req.Status, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
	})
}
