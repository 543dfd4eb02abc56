package pos

// JSON schemas for each data file. They only constrain what the analyzers
// depend on; unknown fields are allowed.

const ordersSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "items", "order_date"],
    "properties": {
      "id": {"type": "string"},
      "customer_id": {"type": "string"},
      "items": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name", "price", "quantity"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "price": {"type": "number", "minimum": 0},
            "quantity": {"type": "integer", "minimum": 0}
          }
        }
      },
      "total_amount": {"type": "number", "minimum": 0},
      "order_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
      "order_time": {"type": "string", "format": "date-time"},
      "rating": {"type": "integer", "minimum": 0, "maximum": 5},
      "estimated_cook_minutes": {"type": "integer", "minimum": 0},
      "actual_cook_minutes": {"type": "integer", "minimum": 0}
    }
  }
}`

const inventorySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "current_stock"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "current_stock": {"type": "number"},
      "min_stock": {"type": "number", "minimum": 0},
      "max_stock": {"type": "number", "minimum": 0},
      "cost_per_unit": {"type": "number", "minimum": 0},
      "used_this_month": {"type": "number", "minimum": 0}
    }
  }
}`

const menuSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "category": {"type": "string"},
      "cooking_time": {"type": "integer", "minimum": 0},
      "price": {"type": "number", "minimum": 0}
    }
  }
}`

const customersSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "string"},
      "total_spent": {"type": "number", "minimum": 0},
      "visits": {"type": "integer", "minimum": 0}
    }
  }
}`

const staffSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "role"],
    "properties": {
      "id": {"type": "string"},
      "role": {"type": "string"}
    }
  }
}`

const tablesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["status"],
    "properties": {
      "number": {"type": "integer"},
      "capacity": {"type": "integer", "minimum": 0},
      "status": {"enum": ["free", "occupied", "reserved"]}
    }
  }
}`
